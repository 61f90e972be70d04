package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Offline catalog builder for the visual product matcher",
	Long: `catalog загружает локальный датасет изображений во внешнее API
распознавания и собирает JSON-файл каталога с upload_id и метаданными,
который читает поисковый сервер.

Примеры:
  catalog build                                # датасет и выходной путь из окружения
  catalog build --dataset ./dataset --out ./data/products.json
  catalog build --meta ./dataset/meta.yaml     # с ручными правками метаданных`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
