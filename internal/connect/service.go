package connect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trndfy/samplevault-backend/pkg/db/models"
	"github.com/trndfy/samplevault-backend/pkg/enums"
	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
	"github.com/trndfy/samplevault-backend/pkg/logger"
	"github.com/trndfy/samplevault-backend/pkg/stripeconnect"
)

type oauthClient interface {
	OAuthURL(params stripeconnect.OAuthParams) (string, error)
	ExchangeCode(ctx context.Context, code string) (*stripeconnect.ConnectedAccount, error)
}

// LinkedAccount is the API view of a persisted merchant link.
type LinkedAccount struct {
	AccountID   string                       `json:"accountId"`
	Status      enums.ConnectedAccountStatus `json:"status"`
	ConnectedAt time.Time                    `json:"connectedAt"`
}

// Service runs the merchant account-linking flow: build the authorize
// redirect, then exchange the returned code and persist the link.
type Service interface {
	AuthorizeURL(state, prefillEmail string) (string, error)
	Exchange(ctx context.Context, code, state string) (*LinkedAccount, error)
}

type ServiceParams struct {
	Repo        Repository
	OAuth       oauthClient
	RedirectURI string
	Logger      *logger.Logger
}

type service struct {
	repo        Repository
	oauth       oauthClient
	redirectURI string
	logger      *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("connect repository required")
	}
	if params.OAuth == nil {
		return nil, fmt.Errorf("oauth client required")
	}
	if params.RedirectURI == "" {
		return nil, fmt.Errorf("redirect uri required")
	}
	return &service{
		repo:        params.Repo,
		oauth:       params.OAuth,
		redirectURI: params.RedirectURI,
		logger:      params.Logger,
	}, nil
}

func (s *service) AuthorizeURL(state, prefillEmail string) (string, error) {
	if strings.TrimSpace(state) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "state required")
	}
	url, err := s.oauth.OAuthURL(stripeconnect.OAuthParams{
		RedirectURI:  s.redirectURI,
		State:        state,
		PrefillEmail: prefillEmail,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build authorize url")
	}
	return url, nil
}

// Exchange consumes the single-use code. A provider rejection surfaces as-is
// and is never retried; the merchant must restart the flow.
func (s *service) Exchange(ctx context.Context, code, state string) (*LinkedAccount, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code required")
	}

	remote, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	account := &models.ConnectedAccount{
		AccountID:   remote.AccountID,
		Status:      enums.ConnectedAccountStatusActive,
		ConnectedAt: remote.ConnectedAt,
	}
	if remote.Email != "" {
		account.Email = &remote.Email
	}
	if state != "" {
		account.State = &state
	}

	stored, err := s.repo.Upsert(ctx, account)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist connected account")
	}

	if s.logger != nil {
		s.logger.Info(s.logger.WithField(ctx, "account_id", stored.AccountID), "merchant account linked")
	}
	return &LinkedAccount{
		AccountID:   stored.AccountID,
		Status:      stored.Status,
		ConnectedAt: stored.ConnectedAt,
	}, nil
}
