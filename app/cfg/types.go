package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	WatchConfig  string
	Port         string
	PollInterval int
	SendDelay    int
	APIAccessKey string

	// Pushover credentials
	PushoverToken string
	PushoverUser  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
