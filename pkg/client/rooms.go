package client

import (
	"fmt"
	"net/http"
	"roomly/pkg/model"
)

// RoomClient talks to the rooms catalog service. The reservation engine uses
// it only to confirm a room exists before touching the availability ledger.
type RoomClient struct {
	httpClient *HttpClient
}

func NewRoomClient(baseURL string) *RoomClient {
	return &RoomClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *RoomClient) GetByID(id string) (*model.Room, error) {
	resp, err := c.httpClient.GET("/api/v1/rooms/id/" + id)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rooms service returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Data model.Room `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode room response: %w", err)
	}

	return &envelope.Data, nil
}
