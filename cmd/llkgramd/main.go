/*
Llkgramd starts the llkgram grammar-compilation service and begins
listening for HTTP requests.

Usage:

	llkgramd

Configuration is read from the TOML file named by the
LLKGRAM_CONFIG_FILE environment variable; if that variable is unset, the
service starts from config.Default and can still be reached on
localhost:8080. The cache backend, listen address, and admin token
secret are all config-file fields rather than CLI flags: this service
has no interactive surface, so there is nothing for a flag parser to do.

If admin_token_secret is not given in the config file, one is
generated at startup and logged once; as with the teacher's generated
JWT secrets, every admin token becomes invalid the moment the process
restarts.
*/
package main

import (
	"crypto/rand"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dekarrin/llkgram/internal/llk/config"
	"github.com/dekarrin/llkgram/service/api"
	"github.com/dekarrin/llkgram/service/dao"
	"github.com/dekarrin/llkgram/service/dao/inmem"
	"github.com/dekarrin/llkgram/service/dao/sqlite"
)

const EnvConfigFile = "LLKGRAM_CONFIG_FILE"

func main() {
	cfg := config.Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("FATAL could not load config: %s", err.Error())
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL invalid config: %s", err.Error())
	}

	secret := []byte(cfg.AdminTokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("FATAL could not generate admin token secret: %s", err.Error())
		}
		log.Printf("WARN  Using generated admin token secret; all admin tokens issued will become invalid at shutdown")
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("FATAL could not initialize store: %s", err.Error())
	}
	defer store.Close()

	a := api.API{
		Store:       store,
		UnauthDelay: time.Second,
		AdminSecret: secret,
	}

	root := chi.NewRouter()
	root.Mount(api.PathPrefix, a.Router())

	log.Printf("INFO  Starting llkgram service on %s...", cfg.ListenAddress)
	log.Fatal(http.ListenAndServe(cfg.ListenAddress, root))
}

func newStore(cfg config.BuildConfig) (dao.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendSQLite:
		if err := os.MkdirAll(cfg.CacheDir, 0770); err != nil {
			return nil, err
		}
		return sqlite.NewDatastore(cfg.CacheDir)
	default:
		return inmem.NewDatastore(), nil
	}
}
