package config

const (
	defaultStateDir        = "~/.local/share/silhouette"
	defaultLogDir          = "~/.local/share/silhouette/logs"
	defaultPrimaryModel    = "briaai/RMBG-1.4"
	defaultSecondaryModel  = "Xenova/modnet-photographic-portrait-matting"
	defaultRequestTimeout  = 120
	defaultMaxDimension    = 1024
	defaultChromaTolerance = 18.0
	defaultChromaSoftness  = 8.0
	defaultChromaBlurSigma = 1.0
	defaultAlphaThreshold  = 128
	defaultSeedStride      = 4
	defaultMaxRegionSize   = 100
	defaultMinRegionSize   = 10
	defaultFill            = "black"
	defaultRedisChannel    = "silhouette:progress"
	defaultAPIBind         = "127.0.0.1:7490"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	// Model kinds accepted by background.primary and background.secondary.
	ModelHTTP   = "http"
	ModelChroma = "chroma"
	ModelNone   = "none"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Background: Background{
			Primary:         ModelChroma,
			Secondary:       ModelNone,
			PrimaryModel:    defaultPrimaryModel,
			SecondaryModel:  defaultSecondaryModel,
			RequestTimeout:  defaultRequestTimeout,
			MaxDimension:    defaultMaxDimension,
			ChromaTolerance: defaultChromaTolerance,
			ChromaSoftness:  defaultChromaSoftness,
			ChromaBlurSigma: defaultChromaBlurSigma,
		},
		Vectorize: Vectorize{
			AlphaThreshold: defaultAlphaThreshold,
			SeedStride:     defaultSeedStride,
			MaxRegionSize:  defaultMaxRegionSize,
			MinRegionSize:  defaultMinRegionSize,
			Fill:           defaultFill,
		},
		Progress: Progress{
			RedisChannel: defaultRedisChannel,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
