// @title           mwork accounts API
// @version         1.0
// @description     Регистрация, подтверждение email, сессии, подписка и аватары аккаунтов.
// @host            localhost:3000
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

package main

import "mwork_accounts/internal/app"

func main() {
	app.Run()
}
