package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	config "github.com/vismatch/go-backend/internal/cfg"
	"github.com/vismatch/go-backend/internal/infrastructure/imagga"
	"github.com/vismatch/go-backend/internal/repository/catalogfile"
	"github.com/vismatch/go-backend/internal/repository/dataset"
	"github.com/vismatch/go-backend/internal/usecase"
	"github.com/vismatch/go-backend/pkg/logger"
)

var (
	datasetDir string
	outputPath string
	metaPath   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Upload the dataset and write the catalog file",
	Long: `build последовательно загружает изображения датасета во внешнее API
(строго по одному файлу) и перезаписывает JSON-файл каталога целиком.
Файл, загрузка которого не удалась, логируется и исключается из каталога;
сборка при этом продолжается.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&datasetDir, "dataset", "", "директория с изображениями (по умолчанию DATASET_DIR)")
	buildCmd.Flags().StringVar(&outputPath, "out", "", "путь выходного файла каталога (по умолчанию CATALOG_PATH)")
	buildCmd.Flags().StringVar(&metaPath, "meta", "", "YAML с ручными правками метаданных (по умолчанию CATALOG_META_PATH)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	log := logger.NewSlogLogger()

	cfg, err := config.LoadForCatalogBuilder(log)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Флаги имеют приоритет над окружением
	if datasetDir == "" {
		datasetDir = cfg.Catalog.DatasetDir
	}
	if outputPath == "" {
		outputPath = cfg.Catalog.CatalogPath
	}
	if metaPath == "" {
		metaPath = cfg.Catalog.MetaPath
	}

	runID := uuid.NewString()
	log.Infof("catalog build started. run_id: %s, dataset: %s, output: %s", runID, datasetDir, outputPath)

	recognition := imagga.NewImaggaService(cfg.Imagga, log)
	datasetRepo := dataset.NewDatasetRepo(log)
	catalogStore := catalogfile.NewCatalogRepo(outputPath, log)

	var bar *progressbar.ProgressBar
	onProgress := func(done int, total int, _ string) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "uploading")
		}
		bar.Set(done)
	}

	buildUC := usecase.NewCatalogBuildUC(
		recognition,
		datasetRepo,
		catalogStore,
		cfg.Catalog.UploadPause,
		onProgress,
		log,
	)

	res, err := buildUC.BuildCatalog(cmd.Context(), usecase.NewBuildCatalogReq(datasetDir, metaPath))
	if err != nil {
		return fmt.Errorf("catalog build failed: %w", err)
	}

	log.Infof("catalog build finished. run_id: %s, entries: %d, skipped: %d, output: %s",
		runID, len(res.Entries), res.Skipped, outputPath)

	return nil
}
