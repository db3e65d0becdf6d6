package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/giovannimartelli/AlbertQuackmore/config"
	"github.com/giovannimartelli/AlbertQuackmore/internal/api/telegram"
	"github.com/giovannimartelli/AlbertQuackmore/internal/importer"
	"github.com/giovannimartelli/AlbertQuackmore/internal/migrations"
	"github.com/giovannimartelli/AlbertQuackmore/internal/service"
	"github.com/giovannimartelli/AlbertQuackmore/internal/store"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/database"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
)

// Run is used to start the application.
func Run(cfg *config.Config, logger *logger.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQL(database.PostgreSQLOptions{
		User:     cfg.PostgreSQL.User,
		Password: cfg.PostgreSQL.Password,
		Database: cfg.PostgreSQL.Database,
		Host:     cfg.PostgreSQL.Host,
		Port:     cfg.PostgreSQL.Port,
		SSLMode:  cfg.PostgreSQL.SSLMode,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to postgresql")
	}
	defer func() {
		err := db.Close()
		if err != nil {
			logger.Error().Err(err).Msg("close postgresql connection")
		}
	}()

	err = db.Ping(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("ping postgresql")
	}

	err = migrations.MigrateDB(logger, db.DB, cfg.PostgreSQL.Database, migrations.Migrations)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrate database")
	}

	messenger, err := telegram.New(telegram.Options{
		Token:         cfg.Telegram.BotToken,
		UpdatesType:   cfg.Telegram.UpdatesType,
		ServerAddress: cfg.Telegram.ServerAddress,
		WebhookURL:    cfg.Telegram.WebhookURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create telegram messenger")
	}
	defer func() {
		err := messenger.Close()
		if err != nil {
			logger.Error().Err(err).Msg("close telegram messenger")
		}
	}()

	apis := service.APIs{
		Messenger: messenger,
	}

	stores := service.Stores{
		Category:    store.NewCategory(db),
		SubCategory: store.NewSubCategory(db),
		Tag:         store.NewTag(db),
		Expense:     store.NewExpense(db),
		Budget:      store.NewBudget(db),
	}

	messages := service.NewMessage(logger, apis)
	states := service.NewState()

	menu := service.NewMenuFlow(&service.MenuFlowOptions{
		Logger:   logger,
		Messages: messages,
	})

	expense := service.NewExpenseFlow(&service.ExpenseFlowOptions{
		Logger:        logger,
		Messages:      messages,
		Menu:          menu,
		Stores:        stores,
		DatePickerURL: cfg.App.DatePickerURL,
	})

	settings := service.NewSettingsFlow(&service.SettingsFlowOptions{
		Logger:   logger,
		Messages: messages,
		Stores:   stores,
	})

	budgetImport := service.NewImportFlow(&service.ImportFlowOptions{
		Logger:   logger,
		Messages: messages,
		Menu:     menu,
		APIs:     apis,
		Importer: importer.New(logger, stores),
	})

	menu.RegisterHandlers(expense, settings, budgetImport)

	event := service.NewEvent(&service.EventOptions{
		Logger:           logger,
		APIs:             apis,
		Messages:         messages,
		States:           states,
		Menu:             menu,
		Flows:            []service.FlowHandler{expense, settings, budgetImport, menu},
		AllowedUsernames: cfg.App.AllowedUsernames,
	})

	logger.Info().Msg("starting bot")
	event.Listen(ctx)
	logger.Info().Msg("bot stopped")
}
