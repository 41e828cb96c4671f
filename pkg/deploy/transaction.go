package deploy

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/reportal/deployator/pkg/arm"
	"github.com/reportal/deployator/pkg/azure"
	"github.com/reportal/deployator/pkg/config"
)

// Transaction threads the context, config, parameter overrides, and the
// outputs accumulated so far through a multi-module run.
type Transaction struct {
	Ctx           context.Context
	Config        *config.Config
	Logger        *log.Entry
	ParameterFile *arm.ParameterFile
	Outputs       azure.Outputs
}

func NewTransaction(ctx context.Context, cfg *config.Config, parameterFile *arm.ParameterFile) Transaction {
	return Transaction{
		Ctx:    ctx,
		Config: cfg,
		Logger: log.WithFields(log.Fields{
			"environment":    cfg.Environment,
			"resource_group": cfg.ResourceGroup,
		}),
		ParameterFile: parameterFile,
		Outputs:       azure.Outputs{},
	}
}

func (t Transaction) WithModule(module string) Transaction {
	t.Logger = t.Logger.WithField("module", module)
	return t
}
