package main

import (
	"github.com/webshop-labs/storefront/internal/app"
	"github.com/webshop-labs/storefront/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
