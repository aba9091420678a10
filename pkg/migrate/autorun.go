package migrate

import (
	"context"

	"github.com/agropazar/agropazar-backend/pkg/config"
	"github.com/agropazar/agropazar-backend/pkg/db"
	"github.com/agropazar/agropazar-backend/pkg/logger"
)

// MaybeRunDev applies the schema automatically when the app runs in dev mode
// with the auto-migrate flag enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.DB.AutoMigrate {
		return nil
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "running schema auto-migration (dev)")

	if err := Run(ctx, client.DB()); err != nil {
		return err
	}

	logg.Info(ctx, "schema auto-migration completed")
	return nil
}
