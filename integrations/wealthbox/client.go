package wealthbox

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/advisorhub/advisorhub-server/config"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// IntegrationType is the key under which Wealthbox tokens are stored.
const IntegrationType = "wealthbox"

// ErrFetchFailed is the single error surfaced for any failure mode of the
// upstream call. Callers get no retry and no detail beyond the log line.
var ErrFetchFailed = errors.New("failed to fetch wealthbox users")

type Contact struct {
	Id                      int64  `json:"id"`
	Email                   string `json:"email"`
	Name                    string `json:"name"`
	Account                 *int64 `json:"account"`
	ExcludedFromAssignments bool   `json:"excluded_from_assignments"`
}

type usersResponse struct {
	Users []Contact `json:"users"`
}

type Client struct {
	baseUrl string
}

func NewClient(config *config.Config) *Client {
	return &Client{baseUrl: config.WealthboxApiUrl}
}

// FetchUsers pulls the contact list with the caller's stored API token.
func (c *Client) FetchUsers(apiToken string) ([]Contact, error) {
	a := fiber.AcquireAgent()
	defer fiber.ReleaseAgent(a)

	res := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(res)

	a.Reuse()
	req := a.Request()
	req.Header.SetMethod(fiber.MethodGet)
	req.SetRequestURI(c.baseUrl + "/users")
	req.Header.Set("ACCESS_TOKEN", apiToken)
	req.Header.Set("Accept", "application/json")

	if err := a.Parse(); err != nil {
		log.Error().Err(err).Msg("Wealthbox request setup failed")
		return nil, ErrFetchFailed
	}

	code, body, errs := a.SetResponse(res).Timeout(10 * time.Second).Bytes()
	if len(errs) > 0 {
		log.Error().Err(errs[0]).Msg("Wealthbox request failed")
		return nil, ErrFetchFailed
	}

	if code != fiber.StatusOK {
		log.Error().Int("status", code).Msg("Wealthbox returned a non-OK status")
		return nil, ErrFetchFailed
	}

	parsed := new(usersResponse)
	if err := json.Unmarshal(body, parsed); err != nil {
		log.Error().Err(err).Msg("Could not decode Wealthbox response")
		return nil, ErrFetchFailed
	}

	return parsed.Users, nil
}
