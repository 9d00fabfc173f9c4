package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/google/go-github/v69/github"
)

type pushHandler struct {
	checkRun core.CheckRunService
	logger   lumber.Logger
}

// NewPushHandler returns the handler starting a check run for the pushed head commit.
func NewPushHandler(checkRun core.CheckRunService, logger lumber.Logger) Handler {
	return &pushHandler{checkRun: checkRun, logger: logger}
}

func (h *pushHandler) Handle(ctx context.Context, event interface{}) error {
	push, ok := event.(*github.PushEvent)
	if !ok {
		return fmt.Errorf("push handler received %T", event)
	}
	if push.GetDeleted() {
		return nil
	}
	repoID := push.GetRepo().GetID()
	sha := push.GetAfter()
	logger := h.logger.WithFields(lumber.CommitFields(repoID, sha))

	if err := h.checkRun.Run(ctx, repoID, sha); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			logger.Infof("push to %s references an untracked commit", push.GetRef())
			return nil
		}
		return err
	}
	logger.Debugf("check run triggered by push to %s", push.GetRef())
	return nil
}

type pingHandler struct {
	logger lumber.Logger
}

// NewPingHandler returns the handler acknowledging webhook registration.
func NewPingHandler(logger lumber.Logger) Handler {
	return &pingHandler{logger: logger}
}

func (h *pingHandler) Handle(ctx context.Context, event interface{}) error {
	if ping, ok := event.(*github.PingEvent); ok {
		h.logger.Infof("webhook %d registered: %s", ping.GetHookID(), ping.GetZen())
	}
	return nil
}
