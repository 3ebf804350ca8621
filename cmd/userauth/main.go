package main

import (
	"fmt"
	"os"
)

// @title                       User Auth & RBAC API
// @version                     1.0
// @description                 Registration, JWT login and admin-only user management.
// @host                        localhost:8080
// @BasePath                    /
// @schemes                     http
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and JWT token.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
