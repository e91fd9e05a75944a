package cfg

const (
	CommandBuild = "build"
	CommandServe = "serve"
)

type Cfg struct {
	Command string

	// Content and output
	ContentDir string
	OutDir     string
	SiteFile   string
	DBPath     string

	// Feed
	FeedPath        string
	FeedCollections []string
	FeedContent     bool
	FeedMaxItems    int

	// Preview server
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
