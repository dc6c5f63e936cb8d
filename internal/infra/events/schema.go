package events

import (
	"embed"
	"math"

	"storefront/internal/domain/entity"

	"github.com/hamba/avro/v2"
	"github.com/pkg/errors"
)

//go:embed schemas/*.avsc
var schemaFS embed.FS

type productUpdatedRecord struct {
	ID          string  `avro:"id"`
	Name        string  `avro:"name"`
	Price       float64 `avro:"price"`
	Description *string `avro:"description"`
	UpdatedAt   int64   `avro:"updated_at"`
}

type orderItemRecord struct {
	ProductID string  `avro:"product_id"`
	Quantity  int32   `avro:"quantity"`
	UnitPrice float64 `avro:"unit_price"`
}

type orderCreatedRecord struct {
	EventID     string            `avro:"event_id"`
	OccurredAt  string            `avro:"occurred_at"`
	OrderID     string            `avro:"order_id"`
	CustomerID  string            `avro:"customer_id"`
	Items       []orderItemRecord `avro:"items"`
	TotalAmount float64           `avro:"total_amount"`
	Currency    string            `avro:"currency"`
	Status      string            `avro:"status"`
	CreatedAt   string            `avro:"created_at"`
}

// SchemaValidator checks events against their Avro schemas before they are
// published. Events without a schema pass.
type SchemaValidator struct {
	schemas map[string]avro.Schema
}

// NewSchemaValidator parses the embedded schemas.
func NewSchemaValidator() (*SchemaValidator, error) {
	v := &SchemaValidator{schemas: make(map[string]avro.Schema)}

	for _, name := range []string{entity.EventProductUpdated, entity.EventOrderCreated} {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".avsc")
		if err != nil {
			return nil, errors.Wrapf(err, "read schema %s", name)
		}

		schema, err := avro.Parse(string(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "parse schema %s", name)
		}
		v.schemas[name] = schema
	}

	return v, nil
}

// Validate encodes the event's record projection with its schema.
func (v *SchemaValidator) Validate(event entity.DomainEvent) error {
	schema, ok := v.schemas[event.EventName()]
	if !ok {
		return nil
	}

	record, err := project(event)
	if err != nil {
		return err
	}

	if _, err := avro.Marshal(schema, record); err != nil {
		return errors.Wrapf(err, "%s does not match schema", event.EventName())
	}

	return nil
}

func project(event entity.DomainEvent) (any, error) {
	switch e := event.(type) {
	case *entity.ProductUpdated:
		return &productUpdatedRecord{
			ID:          e.ID,
			Name:        e.Name,
			Price:       e.Price,
			Description: e.Description,
			UpdatedAt:   e.UpdatedAt,
		}, nil

	case *entity.OrderCreated:
		items := make([]orderItemRecord, 0, len(e.Items))
		for _, item := range e.Items {
			if item.Quantity > math.MaxInt32 || item.Quantity < math.MinInt32 {
				return nil, errors.Errorf("quantity %d of %s out of range", item.Quantity, item.ProductID)
			}
			items = append(items, orderItemRecord{
				ProductID: item.ProductID,
				Quantity:  int32(item.Quantity),
				UnitPrice: item.UnitPrice,
			})
		}

		return &orderCreatedRecord{
			EventID:     e.EventID,
			OccurredAt:  e.OccurredAt,
			OrderID:     e.OrderID,
			CustomerID:  e.CustomerID,
			Items:       items,
			TotalAmount: e.TotalAmount,
			Currency:    e.Currency,
			Status:      e.Status,
			CreatedAt:   e.CreatedAt,
		}, nil

	default:
		return nil, errors.Errorf("no record projection for %s", event.EventName())
	}
}
