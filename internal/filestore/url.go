package filestore

import "strings"

// ResolveKeyToURL builds the browser-facing URL of key. It performs no I/O.
//
//	PublicURLBase set:   <PublicURLBase>/<key>
//	otherwise:           <Endpoint>/<Bucket>/<key>
func ResolveKeyToURL(key string, cfg Config) string {
	if cfg.PublicURLBase != "" {
		return strings.TrimRight(cfg.PublicURLBase, "/") + "/" + key
	}
	return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket + "/" + key
}
