package main

import (
	"context"
	"time"

	"github.com/advisorhub/advisorhub-server/config"
	"github.com/advisorhub/advisorhub-server/controllers"
	"github.com/advisorhub/advisorhub-server/integrations/wealthbox"
	"github.com/advisorhub/advisorhub-server/repos"
	"github.com/advisorhub/advisorhub-server/server"
	"github.com/advisorhub/advisorhub-server/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
)

func main() {

	opts := []fx.Option{}
	opts = append(opts, provideOptions()...)
	opts = append(opts, fx.Invoke(run))

	app := fx.New(opts...)

	app.Run()
}

func provideOptions() []fx.Option {
	return []fx.Option{
		fx.Invoke(utils.ConfigureLogger),
		fx.Provide(config.Parse),
		fx.Provide(config.ProvidePostgres),
		fx.Provide(server.CreateServer),
		fx.Provide(utils.GetDefaultRouter),
		fx.Provide(repos.NewUserRepo),
		fx.Provide(repos.NewOrganizationRepo),
		fx.Provide(repos.NewIntegrationRepo),
		fx.Provide(repos.NewWealthboxRepo),
		fx.Provide(wealthbox.NewClient),
		fx.Invoke(controllers.RegisterAuthController),
		fx.Invoke(controllers.RegisterUserController),
		fx.Invoke(controllers.RegisterOrganizationController),
		fx.Invoke(controllers.RegisterIntegrationController),
	}
}

func run(app *fiber.App, db *bun.DB, config *config.Config, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			errChan := make(chan error)

			go func() {
				errChan <- app.Listen(config.Port)
			}()

			select {
			case err := <-errChan:
				return err
			case <-time.After(100 * time.Millisecond):
				return nil
			}
		},
		OnStop: func(ctx context.Context) error {
			if err := app.Shutdown(); err != nil {
				return err
			}

			return db.Close()
		},
	})
}
