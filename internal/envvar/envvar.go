package envvar

const (
	// NapcastEnv is the environment variable used to determine the environment
	NapcastEnv = "NAPCAST_ENV"

	// NapcastConfigPath is the environment variable used to locate the config file
	NapcastConfigPath = "NAPCAST_CONFIG"

	// NapcastDataPath is the environment variable used to determine the data directory
	NapcastDataPath = "NAPCAST_DATA_PATH"
)
