package config

// Settings parsing for the config API. The POST body arrives as a raw
// JSON map so that partial updates work: absent keys keep their current
// value instead of being zeroed by strict struct decoding.

// ParseEngineConfig merges engine settings from a raw JSON map over base
func ParseEngineConfig(raw map[string]interface{}, base EngineConfig) EngineConfig {
	return EngineConfig{
		Workers:          getIntField(raw, "workers", base.Workers),
		ChunkWaitSeconds: getIntField(raw, "chunk_wait_seconds", base.ChunkWaitSeconds),
		CacheTTLMinutes:  getIntField(raw, "cache_ttl_minutes", base.CacheTTLMinutes),
		CacheMaxSize:     getIntField(raw, "cache_max_size", base.CacheMaxSize),
	}
}

// ParseSchemeConfig merges scheme settings from a raw JSON map over base
func ParseSchemeConfig(raw map[string]interface{}, base SchemeConfig) SchemeConfig {
	return SchemeConfig{
		Address:      getStringField(raw, "address", base.Address),
		HTTPPort:     getIntField(raw, "http_port", base.HTTPPort),
		HTTPSPort:    getIntField(raw, "https_port", base.HTTPSPort),
		ForceHTTPS:   getBoolField(raw, "force_https", base.ForceHTTPS),
		CertFile:     getStringField(raw, "cert_file", base.CertFile),
		KeyFile:      getStringField(raw, "key_file", base.KeyFile),
		UnixFile:     getStringField(raw, "unix_file", base.UnixFile),
		UnixFilePerm: getStringField(raw, "unix_file_perm", base.UnixFilePerm),
		EnableH2C:    getBoolField(raw, "enable_h2c", base.EnableH2C),
	}
}

// Normalized clamps non-positive engine values back to the defaults so
// a persisted override can never disable the engine
func (e EngineConfig) Normalized() EngineConfig {
	if e.Workers <= 0 {
		e.Workers = 4
	}
	if e.ChunkWaitSeconds <= 0 {
		e.ChunkWaitSeconds = 30
	}
	if e.CacheTTLMinutes <= 0 {
		e.CacheTTLMinutes = 30
	}
	if e.CacheMaxSize <= 0 {
		e.CacheMaxSize = 256
	}
	return e
}

// Helper functions for parsing raw JSON maps

func getStringField(m map[string]interface{}, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}

func getIntField(m map[string]interface{}, key string, def int) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return def
}

func getBoolField(m map[string]interface{}, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}
