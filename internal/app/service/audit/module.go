package audit

import "go.uber.org/fx"

// Module exposes the audit recorder via Fx.
var Module = fx.Options(
	fx.Provide(New),
)
