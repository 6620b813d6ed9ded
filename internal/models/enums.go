package models

import "strings"

// OrderStatus is the fulfilment stage of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every tracking status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered, OrderCancelled},
}

// ParseOrderStatus accepts the lowercase status names, ignoring surrounding space and case.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range OrderStatuses {
		if v == st {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Admin status overwrites do not consult it.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, v := range orderTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// PaymentStatus is tracked independently of OrderStatus.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed}

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	ps := PaymentStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range PaymentStatuses {
		if v == ps {
			return ps, true
		}
	}
	return "", false
}

// PaymentMethod values are case-sensitive as stored.
type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "COD"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentCard       PaymentMethod = "Card"
	PaymentNetBanking PaymentMethod = "NetBanking"
)

var PaymentMethods = []PaymentMethod{PaymentCOD, PaymentUPI, PaymentCard, PaymentNetBanking}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	pm := PaymentMethod(strings.TrimSpace(s))
	for _, v := range PaymentMethods {
		if v == pm {
			return pm, true
		}
	}
	return "", false
}

// ContactStatus is the triage state of a contact message.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactResolved ContactStatus = "resolved"
	ContactIgnored  ContactStatus = "ignored"
)

var ContactStatuses = []ContactStatus{ContactNew, ContactResolved, ContactIgnored}

func ParseContactStatus(s string) (ContactStatus, bool) {
	cs := ContactStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range ContactStatuses {
		if v == cs {
			return cs, true
		}
	}
	return "", false
}
