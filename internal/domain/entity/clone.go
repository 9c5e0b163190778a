package entity

// Clone helpers used by the stream layer to snapshot entries before an
// optimistic mutation so a failed request can restore the pre-attempt form.

func (m *Message) Clone() *Message {
	out := *m
	if m.ImageURLs != nil {
		out.ImageURLs = append([]string(nil), m.ImageURLs...)
	}
	if m.Action != nil {
		action := *m.Action
		if m.Action.Offer != nil {
			offer := *m.Action.Offer
			action.Offer = &offer
		}
		if m.Action.Trade != nil {
			trade := *m.Action.Trade
			trade.OfferedListingIDs = append([]string(nil), m.Action.Trade.OfferedListingIDs...)
			action.Trade = &trade
		}
		if m.Action.Request != nil {
			request := *m.Action.Request
			action.Request = &request
		}
		out.Action = &action
	}
	return &out
}

func (o *Order) Clone() *Order {
	out := *o
	if o.RejectionHistory != nil {
		out.RejectionHistory = append([]RejectionRecord(nil), o.RejectionHistory...)
	}
	return &out
}

func (b *BarterRequest) Clone() *BarterRequest {
	out := *b
	if b.OfferedListingIDs != nil {
		out.OfferedListingIDs = append([]string(nil), b.OfferedListingIDs...)
	}
	return &out
}

func (n *Notification) Clone() *Notification {
	out := *n
	return &out
}
