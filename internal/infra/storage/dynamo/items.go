package dynamo

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
)

// Single-table layout:
//
//	booking: PK=BOOKING#<id>          SK=META       GSI1PK=USER#<userId> GSI1SK=<createdAt>
//	claim:   PK=SLOT#<doctor>#<date>  SK=<timeSlot> bookingId=<id>
//
// A claim exists only while its booking is confirmed.
const (
	bookingPrefix = "BOOKING#"
	slotPrefix    = "SLOT#"
	userPrefix    = "USER#"
	metaSK        = "META"

	// GSI1Name index listing a user's bookings by creation time
	GSI1Name = "GSI1"
)

type bookingItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	GSI1PK      string `dynamodbav:"GSI1PK"`
	GSI1SK      string `dynamodbav:"GSI1SK"`
	ID          string `dynamodbav:"id"`
	DoctorID    string `dynamodbav:"doctorId"`
	DoctorName  string `dynamodbav:"doctorName"`
	UserID      string `dynamodbav:"userId"`
	UserName    string `dynamodbav:"userName"`
	UserEmail   string `dynamodbav:"userEmail"`
	Date        string `dynamodbav:"date"`
	TimeSlot    string `dynamodbav:"timeSlot"`
	Status      string `dynamodbav:"status"`
	CreatedAt   string `dynamodbav:"createdAt"`
	CancelledAt string `dynamodbav:"cancelledAt,omitempty"`
}

type claimItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	BookingID string `dynamodbav:"bookingId"`
}

func bookingKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: bookingPrefix + id},
		"SK": &types.AttributeValueMemberS{Value: metaSK},
	}
}

func slotPK(doctorID, date string) string {
	return slotPrefix + doctorID + "#" + date
}

func claimKey(k domain.SlotKey) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: slotPK(k.DoctorID, k.Date)},
		"SK": &types.AttributeValueMemberS{Value: k.TimeSlot},
	}
}

func newBookingItem(b *domain.Booking) bookingItem {
	item := bookingItem{
		PK:         bookingPrefix + b.ID,
		SK:         metaSK,
		GSI1PK:     userPrefix + b.UserID,
		GSI1SK:     b.CreatedAt.UTC().Format(time.RFC3339Nano),
		ID:         b.ID,
		DoctorID:   b.DoctorID,
		DoctorName: b.DoctorName,
		UserID:     b.UserID,
		UserName:   b.UserName,
		UserEmail:  b.UserEmail,
		Date:       b.Date,
		TimeSlot:   b.TimeSlot,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if b.CancelledAt != nil {
		item.CancelledAt = b.CancelledAt.UTC().Format(time.RFC3339Nano)
	}
	return item
}

func (i bookingItem) toDomain() (*domain.Booking, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse createdAt of %s: %w", i.ID, err)
	}
	b := &domain.Booking{
		ID:         i.ID,
		DoctorID:   i.DoctorID,
		DoctorName: i.DoctorName,
		UserID:     i.UserID,
		UserName:   i.UserName,
		UserEmail:  i.UserEmail,
		Date:       i.Date,
		TimeSlot:   i.TimeSlot,
		Status:     domain.BookingStatus(i.Status),
		CreatedAt:  createdAt,
	}
	if i.CancelledAt != "" {
		t, err := time.Parse(time.RFC3339Nano, i.CancelledAt)
		if err != nil {
			return nil, fmt.Errorf("parse cancelledAt of %s: %w", i.ID, err)
		}
		b.CancelledAt = &t
	}
	return b, nil
}

func decodeBooking(av map[string]types.AttributeValue) (*domain.Booking, error) {
	var item bookingItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}
