package main

import "premiumblog/internal/app"

// @title        Premium Blog Accounts API
// @version      1.0
// @description  User-account backend: registration, OTP verification, login, password reset, profiles.
// @BasePath     /
func main() {
	app.Run()
}
