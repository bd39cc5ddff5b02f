package model

// Room holds the reference data for a bookable hotel room.  The
// service operates a single seeded room; rows in the rooms table
// are never mutated by the API.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the room.
//  Capacity    – maximum number of guests.
//  Price       – nightly price.
//  Description – free-text description.
type Room struct {
	ID          uint64  `json:"room_id"`     // rooms.id
	Name        string  `json:"room_name"`   // rooms.name
	Capacity    uint32  `json:"capacity"`    // rooms.capacity
	Price       float64 `json:"price"`       // rooms.price
	Description string  `json:"description"` // rooms.description
}
