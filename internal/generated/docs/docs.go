// Package docs registers the OpenAPI document with swag so echo-swagger can
// serve it at /swagger/doc.json.
package docs

import (
	"fmt"
	"sync"

	"github.com/swaggo/swag"

	"storymap/internal/generated/servers"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register publishes the API document under swag's default instance name.
// Only the first call registers; later calls return its result.
func Register() error {
	registerOnce.Do(func() {
		registerErr = register()
	})
	return registerErr
}

func register() error {
	doc, err := servers.GetSwagger()
	if err != nil {
		return err
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal OpenAPI document: %w", err)
	}

	swag.Register(swag.Name, &swag.Spec{
		Version:          doc.Info.Version,
		Title:            doc.Info.Title,
		Description:      doc.Info.Description,
		InfoInstanceName: swag.Name,
		SwaggerTemplate:  string(raw),
		LeftDelim:        "{{",
		RightDelim:       "}}",
	})
	return nil
}
