package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
)

type listingService interface {
	CreateListings(ctx context.Context, form dashboard.ListingForm) (int, error)
	UpdateListing(ctx context.Context, cabinetID string, current dashboard.Vacancy, form dashboard.VacancyForm) (dashboard.Vacancy, error)
	DeleteListing(ctx context.Context, cabinetID, externalID string) error
	ReplaceCities(ctx context.Context, form dashboard.CityReplaceForm) error
	UploadImages(ctx context.Context, cabinetID string, files []dashboard.ImageFile) ([]string, error)
}

var errListingService = errors.New("listing command requires service")

// CreateListingsInput wraps the create form. Created receives the listing count when set.
type CreateListingsInput struct {
	Form    dashboard.ListingForm `json:"form"`
	Created *int                  `json:"-"`
}

// CreateListingsCommand creates a batch of listings.
type CreateListingsCommand struct {
	service   listingService
	telemetry Telemetry
}

// NewCreateListingsCommand creates the command.
func NewCreateListingsCommand(service listingService, telemetry Telemetry) *CreateListingsCommand {
	return &CreateListingsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateListingsInput] = (*CreateListingsCommand)(nil)

// Execute delegates to the dashboard service.
func (c *CreateListingsCommand) Execute(ctx context.Context, msg CreateListingsInput) error {
	if c.service == nil {
		return errListingService
	}
	created, err := c.service.CreateListings(ctx, msg.Form)
	if err != nil {
		return err
	}
	if msg.Created != nil {
		*msg.Created = created
	}
	c.telemetry.Record(ctx, "dashboard.command.create_listings", map[string]any{
		"cabinet_id": msg.Form.Cabinet,
		"count":      created,
	})
	return nil
}

// UpdateListingInput identifies the listing and carries the edit form.
type UpdateListingInput struct {
	CabinetID string                `json:"cabinet_id"`
	Current   dashboard.Vacancy     `json:"current"`
	Form      dashboard.VacancyForm `json:"form"`
}

// UpdateListingCommand saves an edited listing.
type UpdateListingCommand struct {
	service   listingService
	telemetry Telemetry
}

// NewUpdateListingCommand creates the command.
func NewUpdateListingCommand(service listingService, telemetry Telemetry) *UpdateListingCommand {
	return &UpdateListingCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateListingInput] = (*UpdateListingCommand)(nil)

// Execute delegates to the dashboard service.
func (c *UpdateListingCommand) Execute(ctx context.Context, msg UpdateListingInput) error {
	if c.service == nil {
		return errListingService
	}
	updated, err := c.service.UpdateListing(ctx, msg.CabinetID, msg.Current, msg.Form)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.update_listing", map[string]any{
		"cabinet_id": msg.CabinetID,
		"vacancy_id": updated.ID,
	})
	return nil
}

// DeleteListingInput identifies the listing to delete.
type DeleteListingInput struct {
	CabinetID  string `json:"cabinet_id"`
	ExternalID string `json:"external_id"`
}

// DeleteListingCommand removes a listing.
type DeleteListingCommand struct {
	service   listingService
	telemetry Telemetry
}

// NewDeleteListingCommand creates the command.
func NewDeleteListingCommand(service listingService, telemetry Telemetry) *DeleteListingCommand {
	return &DeleteListingCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteListingInput] = (*DeleteListingCommand)(nil)

// Execute delegates to the dashboard service.
func (c *DeleteListingCommand) Execute(ctx context.Context, msg DeleteListingInput) error {
	if c.service == nil {
		return errListingService
	}
	if err := c.service.DeleteListing(ctx, msg.CabinetID, msg.ExternalID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.delete_listing", map[string]any{
		"cabinet_id":  msg.CabinetID,
		"external_id": msg.ExternalID,
	})
	return nil
}

// ReplaceCitiesCommand rewrites cities to addresses in bulk.
type ReplaceCitiesCommand struct {
	service   listingService
	telemetry Telemetry
}

// NewReplaceCitiesCommand creates the command.
func NewReplaceCitiesCommand(service listingService, telemetry Telemetry) *ReplaceCitiesCommand {
	return &ReplaceCitiesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[dashboard.CityReplaceForm] = (*ReplaceCitiesCommand)(nil)

// Execute delegates to the dashboard service.
func (c *ReplaceCitiesCommand) Execute(ctx context.Context, msg dashboard.CityReplaceForm) error {
	if c.service == nil {
		return errListingService
	}
	if err := c.service.ReplaceCities(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.replace_cities", map[string]any{
		"cabinet_id": msg.Cabinet,
		"cities":     len(msg.OldCities),
	})
	return nil
}

// UploadImagesInput carries the files for a cabinet. URLs receives the stored image URLs when set.
type UploadImagesInput struct {
	CabinetID string                `json:"cabinet_id"`
	Files     []dashboard.ImageFile `json:"files"`
	URLs      *[]string             `json:"-"`
}

// UploadImagesCommand uploads listing images to a cabinet.
type UploadImagesCommand struct {
	service   listingService
	telemetry Telemetry
}

// NewUploadImagesCommand creates the command.
func NewUploadImagesCommand(service listingService, telemetry Telemetry) *UploadImagesCommand {
	return &UploadImagesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UploadImagesInput] = (*UploadImagesCommand)(nil)

// Execute delegates to the dashboard service.
func (c *UploadImagesCommand) Execute(ctx context.Context, msg UploadImagesInput) error {
	if c.service == nil {
		return errListingService
	}
	urls, err := c.service.UploadImages(ctx, msg.CabinetID, msg.Files)
	if err != nil {
		return err
	}
	if msg.URLs != nil {
		*msg.URLs = urls
	}
	c.telemetry.Record(ctx, "dashboard.command.upload_images", map[string]any{
		"cabinet_id": msg.CabinetID,
		"files":      len(urls),
	})
	return nil
}
