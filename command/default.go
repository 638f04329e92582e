package command

const (
	JSONOutputFlag = "json"
	LogLevelFlag   = "log-level"
)

const (
	DefaultLogLevel = "INFO"
	DefaultChainID  = 100
)
