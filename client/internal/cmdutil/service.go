package cmdutil

import (
	"mongovault/client/internal/api"
)

// Service builds the API client from the saved configuration. Commands
// resolve it at run time so 'config init' works on a fresh machine.
func Service() (api.Service, error) {
	apiClient, err := api.NewClient()
	if err != nil {
		return nil, err
	}
	return api.NewService(apiClient), nil
}
