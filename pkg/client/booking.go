package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"roombook/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *BookingClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/booking", body)
}

func (c *BookingClient) List(ctx context.Context, query url.Values) (*Response, error) {
	path := "/booking"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.httpClient.GET(ctx, path)
}

func (c *BookingClient) AvailableSlots(ctx context.Context, resource model.Resource, date string) (*Response, error) {
	q := url.Values{}
	q.Set("resource", string(resource))
	q.Set("date", date)
	return c.httpClient.GET(ctx, "/booking/available-slots?"+q.Encode())
}

func (c *BookingClient) GroupByResource(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/booking/groupBy")
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/booking/id/"+url.PathEscape(id))
}

func (c *BookingClient) Update(ctx context.Context, id string, body any) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/booking/"+url.PathEscape(id), body)
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/booking/"+url.PathEscape(id))
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.BookingView, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%s\n%w", resp.ToString(), err)
	}

	var booking model.BookingView
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%s\n%w", resp.ToString(), err)
	}
	return &booking, nil
}

func (c *BookingClient) DecodeBookingPage(resp *Response) (*model.BookingPage, error) {
	var page model.BookingPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("could not decode paginated resp:\n%s\n%w", resp.ToString(), err)
	}
	return &page, nil
}

func (c *BookingClient) DecodeSlots(resp *Response) ([]model.Slot, error) {
	var wrapper struct {
		Data []model.Slot `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode slots:\n%s\n%w", resp.ToString(), err)
	}
	return wrapper.Data, nil
}

// DecodeGroups keeps the raw per-resource lists; key order is not preserved by a Go map.
func (c *BookingClient) DecodeGroups(resp *Response) (map[model.Resource][]model.BookingView, error) {
	var wrapper struct {
		Data map[model.Resource][]model.BookingView `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode groups:\n%s\n%w", resp.ToString(), err)
	}
	return wrapper.Data, nil
}
