package site

const (
	PageHome  = "home"
	PageBlog  = "blog"
	PageTalks = "talks"
)

// Site is the site-wide metadata loaded once at startup.
type Site struct {
	Name               string          `yaml:"name" toml:"name"`
	Email              string          `yaml:"email" toml:"email"`
	URL                string          `yaml:"url" toml:"url"`
	Language           string          `yaml:"language" toml:"language"`
	NumPostsOnHomepage int             `yaml:"num_posts_on_homepage" toml:"num_posts_on_homepage"`
	NumTalksOnHomepage int             `yaml:"num_talks_on_homepage" toml:"num_talks_on_homepage"`
	Pages              map[string]Page `yaml:"pages" toml:"pages"`
	Socials            []Social        `yaml:"socials" toml:"socials"`
}

type Page struct {
	Title       string `yaml:"title" toml:"title"`
	Href        string `yaml:"href" toml:"href"`
	Description string `yaml:"description" toml:"description"`
}

type Social struct {
	Name string `yaml:"name" toml:"name"`
	Href string `yaml:"href" toml:"href"`
}
