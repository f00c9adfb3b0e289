package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/api"
	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/media/images"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// ProvideAPIServer provides the fully wired HTTP API server.
func ProvideAPIServer(i do.Injector) (*api.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	covers := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:    do.MustInvoke[*service.AuthService](i),
		Session: do.MustInvoke[*service.SessionService](i),
		Profile: do.MustInvoke[*service.ProfileService](i),
		Book:    do.MustInvoke[*service.BookService](i),
		Tag:     do.MustInvoke[*service.TagService](i),
		Loan:    do.MustInvoke[*service.LoanService](i),
		Quote:   do.MustInvoke[*service.QuoteService](i),
		Author:  do.MustInvoke[*service.AuthorService](i),
		Ingest:  do.MustInvoke[*service.IngestService](i),
	}

	storage := &api.StorageServices{Covers: covers}

	return api.NewServer(cfg, storeHandle.Store, services, storage, log.Logger), nil
}
