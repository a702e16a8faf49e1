package service

type Config struct {
	Token      string `toml:"token"`
	Expiration string `toml:"expiration"`
	Issuer     string `toml:"issuer"`
}
