package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	mw "spendtrack/internal/api/middlewares"
	"spendtrack/internal/api/routers"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/cron"
	"spendtrack/pkg/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		return
	}

	utils.InitLogger()

	err = sqlconnect.ConnectDb()
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	scheduler := cron.StartCronJob(sqlconnect.DB)
	defer scheduler.Stop()

	port := os.Getenv("SERVER_PORT")

	router := routers.MainRouter()
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware, "/users/signup", "/users/login")

	secureMux := mw.RequestID(jwtMiddleware(mw.SecurityHeaders(router)))

	server := &http.Server{
		Addr:    port,
		Handler: secureMux,
	}

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	fmt.Println("Server is running on port", port)

	if cert != "" && key != "" {
		server.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}
}
