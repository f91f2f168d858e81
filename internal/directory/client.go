package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

// Client reads contacts, leases and property structure from the
// property-management system's JSON API. It implements the collaborator
// interfaces the service layer consumes.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) ResolveEstateCode(ctx context.Context, rentalObjectCode string) (*model.Estate, error) {
	var payload struct {
		EstateCode    string `json:"estateCode"`
		EstateCaption string `json:"estateCaption"`
		Type          string `json:"type"`
	}
	found, err := c.get(ctx, fmt.Sprintf("/rentalObjects/%s/estate", url.PathEscape(rentalObjectCode)), &payload)
	if err != nil || !found {
		return nil, err
	}
	return &model.Estate{
		EstateCode:    payload.EstateCode,
		EstateCaption: payload.EstateCaption,
		Type:          payload.Type,
	}, nil
}

func (c *Client) ResolveResidentialArea(ctx context.Context, rentalPropertyID string) (*model.ResidentialArea, error) {
	var payload struct {
		Code    string `json:"code"`
		Caption string `json:"caption"`
	}
	found, err := c.get(ctx, fmt.Sprintf("/rentalProperties/%s/residentialArea", url.PathEscape(rentalPropertyID)), &payload)
	if err != nil || !found {
		return nil, err
	}
	return &model.ResidentialArea{Code: payload.Code, Caption: payload.Caption}, nil
}

func (c *Client) GetContact(ctx context.Context, contactCode string) (*model.Contact, error) {
	var payload struct {
		ContactCode                string `json:"contactCode"`
		FullName                   string `json:"fullName"`
		NationalRegistrationNumber string `json:"nationalRegistrationNumber"`
		Address                    string `json:"address"`
	}
	found, err := c.get(ctx, fmt.Sprintf("/contacts/%s", url.PathEscape(contactCode)), &payload)
	if err != nil || !found {
		return nil, err
	}
	return &model.Contact{
		ContactCode:                payload.ContactCode,
		FullName:                   payload.FullName,
		NationalRegistrationNumber: payload.NationalRegistrationNumber,
		Address:                    payload.Address,
	}, nil
}

func (c *Client) GetHousingContracts(ctx context.Context, contactCode string) (*model.Lease, *model.Lease, error) {
	var payload struct {
		Current  *leasePayload `json:"current"`
		Upcoming *leasePayload `json:"upcoming"`
	}
	found, err := c.get(ctx, fmt.Sprintf("/contacts/%s/housingContracts", url.PathEscape(contactCode)), &payload)
	if err != nil || !found {
		return nil, nil, err
	}
	return payload.Current.toLease(), payload.Upcoming.toLease(), nil
}

func (c *Client) GetParkingSpaceContracts(ctx context.Context, contactCode string) ([]model.Lease, error) {
	var payload []leasePayload
	found, err := c.get(ctx, fmt.Sprintf("/contacts/%s/parkingSpaceContracts", url.PathEscape(contactCode)), &payload)
	if err != nil || !found {
		return nil, err
	}
	leases := make([]model.Lease, 0, len(payload))
	for _, item := range payload {
		leases = append(leases, *item.toLease())
	}
	return leases, nil
}

func (c *Client) GetQueuePoints(ctx context.Context, contactCode string) (int, error) {
	var payload struct {
		QueuePoints int `json:"queuePoints"`
	}
	found, err := c.get(ctx, fmt.Sprintf("/contacts/%s/queuePoints", url.PathEscape(contactCode)), &payload)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return payload.QueuePoints, nil
}

type leasePayload struct {
	LeaseID          string     `json:"leaseId"`
	Type             string     `json:"type"`
	RentalPropertyID string     `json:"rentalPropertyId"`
	RentalObjectCode string     `json:"rentalObjectCode"`
	Status           string     `json:"status"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	ResidentialArea  *struct {
		Code    string `json:"code"`
		Caption string `json:"caption"`
	} `json:"residentialArea"`
}

func (p *leasePayload) toLease() *model.Lease {
	if p == nil {
		return nil
	}
	lease := &model.Lease{
		LeaseID:          p.LeaseID,
		Type:             p.Type,
		RentalPropertyID: p.RentalPropertyID,
		RentalObjectCode: p.RentalObjectCode,
		Status:           p.Status,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
	}
	if p.ResidentialArea != nil {
		lease.ResidentialArea = &model.ResidentialArea{
			Code:    p.ResidentialArea.Code,
			Caption: p.ResidentialArea.Caption,
		}
	}
	return lease
}

// get performs a GET against the directory. A 404 is reported as not found,
// not as an error, since absence is a normal lookup outcome.
func (c *Client) get(ctx context.Context, path string, out interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("directory request %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decode directory response %s: %w", path, err)
		}
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("directory request %s: unexpected status %d", path, resp.StatusCode)
	}
}
