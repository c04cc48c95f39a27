package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is the channel a purchase was settled through
type PaymentMethod int

const (
	PaymentMethodCash PaymentMethod = iota + 1
	PaymentMethodDigitalTransfer
	PaymentMethodCard
	PaymentMethodCredit
)

var paymentMethodNames = map[PaymentMethod]string{
	PaymentMethodCash:            "Cash",
	PaymentMethodDigitalTransfer: "DigitalTransfer",
	PaymentMethodCard:            "Card",
	PaymentMethodCredit:          "Credit",
}

// ParsePaymentMethod accepts the canonical names case-insensitively.
// "Upi" and "Online" are older names for a digital transfer.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return PaymentMethodCash, nil
	case "digitaltransfer", "digital_transfer", "upi", "online":
		return PaymentMethodDigitalTransfer, nil
	case "card":
		return PaymentMethodCard, nil
	case "credit":
		return PaymentMethodCredit, nil
	}
	return 0, fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) IsValid() bool {
	_, ok := paymentMethodNames[m]
	return ok
}

func (m PaymentMethod) String() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return "Unknown"
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("payment method must be a string")
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	case nil:
		*m = 0
	default:
		return fmt.Errorf("payment method: cannot scan %T", value)
	}
	return nil
}
