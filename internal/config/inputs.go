package config

// Environment variables read once at startup.
const (
	EnvAccessKey  = "AWS_KEY"
	EnvSecretKey  = "AWS_SECRET"
	EnvSourceCIDR = "IPV4_ADDRESS"
	EnvDBPassword = "DWH_DB_PASSWORD"
	EnvLogFormat  = "DWHPROV_LOG_FORMAT"
)

// Inputs holds the values taken from the process environment.
type Inputs struct {
	AccessKey  string
	SecretKey  string
	SourceCIDR string
	DBPassword string
}

// InputsFromEnv builds Inputs using lookup, normally os.LookupEnv.
func InputsFromEnv(lookup func(string) (string, bool)) Inputs {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	return Inputs{
		AccessKey:  get(EnvAccessKey),
		SecretKey:  get(EnvSecretKey),
		SourceCIDR: get(EnvSourceCIDR),
		DBPassword: get(EnvDBPassword),
	}
}

// Validate checks that the required environment values are present and
// that the source CIDR parses.
func (in Inputs) Validate() error {
	var missing []string
	if in.AccessKey == "" {
		missing = append(missing, EnvAccessKey)
	}
	if in.SecretKey == "" {
		missing = append(missing, EnvSecretKey)
	}
	if in.SourceCIDR == "" {
		missing = append(missing, EnvSourceCIDR)
	}
	if len(missing) > 0 {
		return &MissingError{Source: "environment", Fields: missing}
	}

	if _, err := ParseSourceCIDR(in.SourceCIDR); err != nil {
		return err
	}
	return nil
}
