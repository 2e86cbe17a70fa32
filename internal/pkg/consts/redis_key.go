package consts

const (
	HavenUserChannelKey   = "haven:user:"
	HavenBroadcastChannel = "haven:broadcast"
	StoreMetricsKey       = "haven:metrics:store"
)
