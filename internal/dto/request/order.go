package request

import (
	"math"
	"strconv"
	"strings"
)

type CreateOrderRequest struct {
	Name  string             `json:"name" validate:"required,personname"`
	Phone string             `json:"phone" validate:"required,phonedigits"`
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemRequest struct {
	ID       FlexInt `json:"id" validate:"gt=0"`
	Quantity FlexInt `json:"quantity" validate:"gt=0,max=2147483647"`
}

// FlexInt accepts a JSON number or a numeric string ("3"). Anything that is
// not a whole number decodes to 0 so that the gt=0 rule rejects it.
type FlexInt int64

// largest integer a float64 holds exactly
const maxExactInt = 1 << 53

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		*n = 0
		return nil
	}

	*n = FlexInt(f)
	return nil
}
