package entity

import "time"

// Identity accessors shared by the stream reconciler. Every entity carried by
// a realtime stream exposes its server id, its optimistic correlation token
// (empty once acknowledged, or for kinds that are never optimistically
// inserted), and its creation timestamp for ordering.

func (m *Message) EntityID() string         { return m.ID }
func (m *Message) CorrelationToken() string { return m.ClientToken }
func (m *Message) CreatedTime() time.Time   { return m.CreatedAt }

func (n *Notification) EntityID() string         { return n.ID }
func (n *Notification) CorrelationToken() string { return n.ClientToken }
func (n *Notification) CreatedTime() time.Time   { return n.CreatedAt }

func (o *Order) EntityID() string         { return o.ID }
func (o *Order) CorrelationToken() string { return "" }
func (o *Order) CreatedTime() time.Time   { return o.CreatedAt }

func (b *BarterRequest) EntityID() string         { return b.ID }
func (b *BarterRequest) CorrelationToken() string { return "" }
func (b *BarterRequest) CreatedTime() time.Time   { return b.CreatedAt }
