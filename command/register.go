package command

import (
	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

// RegisterHandlers subscribes the render handler to the dispatcher and, when
// reg is set, adds it to the registry. Callers unsubscribe when done.
func RegisterHandlers(reg *gcmd.Registry, engine hardcopy.Engine, tempDir string) ([]dispatcher.Subscription, error) {
	if engine == nil {
		return nil, errors.New("render engine is required", errors.CategoryValidation).
			WithTextCode("ENGINE_REQUIRED")
	}

	render := NewRenderDocumentHandler(engine)
	render.TempDir = tempDir

	subscriptions := []dispatcher.Subscription{
		dispatcher.SubscribeCommand(render),
	}
	if reg != nil {
		if err := reg.RegisterCommand(render); err != nil {
			return subscriptions, err
		}
	}
	return subscriptions, nil
}
