package metrics

const Namespace = "analytics_proxy"

const (
	CacheTypeRedis  = "redis"
	CacheTypeMemory = "memory"
)

const (
	CacheOperationTypeGet     = "get"
	CacheOperationTypeSet     = "set"
	CacheOperationTypeListAll = "list_all"
	CacheOperationTypeDelete  = "delete"
	CacheOperationTypeFlush   = "flush"
)

const DataSourceTypePlausible = "plausible"

const (
	QueryTypeRealtime       = "realtime"
	QueryTypeTimeseries     = "timeseries"
	QueryTypeBreakdown      = "breakdown"
	QueryTypeAggregate      = "aggregate"
	QueryTypeTestConnection = "test_connection"
)
