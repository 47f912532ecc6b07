package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt accepts both 12 and "12". The admin forms post numeric inputs as strings.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	*n = FlexInt(int(f))
	return nil
}

func (n *FlexInt) Int() int {
	if n == nil {
		return 0
	}
	return int(*n)
}

// FlexFloat accepts both 1500.5 and "1500.5".
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

func (f *FlexFloat) Float() float64 {
	if f == nil {
		return 0
	}
	return float64(*f)
}

// FlexBool accepts true, false, "true" and "false".
type FlexBool bool

func (v *FlexBool) UnmarshalJSON(b []byte) error {
	switch strings.TrimSpace(string(bytes.Trim(b, `"`))) {
	case "true":
		*v = true
	case "false", "":
		*v = false
	default:
		return fmt.Errorf("invalid boolean %s", b)
	}
	return nil
}

func (v *FlexBool) Bool() bool {
	return v != nil && bool(*v)
}
