package main

import (
	"log"
	"net/http"
	"os"

	"github.com/Rakhulsr/go-storefront/app/cmd"
	"github.com/Rakhulsr/go-storefront/app/configs"
	"github.com/Rakhulsr/go-storefront/app/routes"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
)

func main() {
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	keys, err := configs.LoadSessionKeysFromEnv()
	if err != nil {
		log.Fatalf("Session keys invalid: %v (run with `generate-keys` to create a pair)", err)
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	configs.InitRazorpayClient()

	store := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey)
	log.Println("✅ Session store initialized.")

	router := routes.NewRouter(db, store)
	handler := routes.WithCSRF(router, keys.AuthKey, configs.LoadENV.APP_ENV == "production")

	server := http.Server{
		Addr:    ":" + configs.LoadENV.Port,
		Handler: handler,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("server stopped:", err)
	}
}
