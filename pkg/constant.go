package pkg

const (
	INF_WEIGHT float64 = 1e15

	// routing
	AVERAGE_SPEED_KMH  = 25.0
	MIN_EDGE_WEIGHT_KM = 0.01

	// network build budget. MAX_NODES is a soft target enforced through
	// downsampling; the post-integration node count can still exceed it, so
	// the hard preparation ceiling carries extra headroom.
	MAX_NODES           = 5000
	NODE_RESERVE        = 150
	MIN_NODE_TARGET     = 500
	DOWNSAMPLE_HEADROOM = 1.1
	MAX_PREPARED_NODES  = 6000

	COORD_KEY_PRECISION  = 6
	REF_CONNECTOR_CAP_KM = 0.5
)

const (
	DEBUG = false
)
