package app

import (
	"time"

	"github.com/kalsada/citepay/internal/app/api/server"
	"github.com/kalsada/citepay/internal/app/service/audit"
	"github.com/kalsada/citepay/internal/app/service/payment"
	"github.com/kalsada/citepay/internal/app/service/statistics"
	"github.com/kalsada/citepay/internal/platform/db"
	"github.com/kalsada/citepay/pkg/config"
	"github.com/kalsada/citepay/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	audit.Module,
	payment.Module,
	statistics.Module,
)
