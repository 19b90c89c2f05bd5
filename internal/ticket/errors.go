package ticket

import "errors"

// ErrDuplicateTicket indicates that the requester already has a live ticket channel.
var ErrDuplicateTicket = errors.New("requester already has an open ticket")

// ErrNotStaff indicates that the acting user does not hold the staff role.
var ErrNotStaff = errors.New("actor does not hold the staff role")

// ErrAlreadyClaimed indicates that the ticket carries a claim marker.
var ErrAlreadyClaimed = errors.New("ticket is already claimed")

// ErrClosePending indicates that a close is already scheduled for the channel.
var ErrClosePending = errors.New("ticket close is already scheduled")

// ErrDeliveryFailed indicates that a transcript could not be delivered to the
// log destination. The transcript is still considered attempted; callers on
// the close path log this and proceed with deletion.
var ErrDeliveryFailed = errors.New("transcript delivery failed")
