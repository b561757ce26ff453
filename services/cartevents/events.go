package cartevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/chidotaco/tacoshop/lib/myerrors"
	"github.com/chidotaco/tacoshop/lib/myevents"
)

const (
	TopicName       = "cart"
	cartUpdatedName = TopicName + ".updated"
)

type CartEventService interface {
	Subscribe(c context.Context) error
	OnCartUpdated(c context.Context, topic string, event CartUpdated) error
}

func DispatchEvent(c context.Context, reader io.Reader, service CartEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case cartUpdatedName:
		{
			event := CartUpdated{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartUpdated(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("event %s not supported", envelope.EventTypeName))
	}
}

// CartUpdated is broadcast on every cart mutation so that interested parties,
// such as the header cart-indicator, can refresh their cached item count.
// Delivery is at-most-once; late subscribers do not receive missed events.
type CartUpdated struct {
	CartUID    string
	Count      int
	ProductUID string `json:",omitempty"`
	Quantity   int    `json:",omitempty"`
}

func (e CartUpdated) GetEventTypeName() string {
	return cartUpdatedName
}

func (e CartUpdated) GetAggregateName() string {
	return e.CartUID
}
