package dashboard

// Config holds the dashboard settings.
type Config struct {
	InitialPage int
	StrictSizes bool
}

// Option configures a Controller.
type Option func(*Config)

// WithInitialPage sets the page fetched on Mount.
func WithInitialPage(page int) Option {
	return func(c *Config) {
		if page >= 1 {
			c.InitialPage = page
		}
	}
}

// WithStrictSizes rejects malformed sizes rows instead of defaulting them.
func WithStrictSizes(strict bool) Option {
	return func(c *Config) {
		c.StrictSizes = strict
	}
}

func defaultConfig() Config {
	return Config{InitialPage: 1}
}
