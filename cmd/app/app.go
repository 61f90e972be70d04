package main

import "github.com/vismatch/go-backend/internal/app"

//	@title			Visual Product Matcher API
//	@version		1.0
//	@description	Поиск визуально похожих товаров каталога через внешнее API распознавания

//	@BasePath	/api/v1

func main() {
	app.Run()
}
