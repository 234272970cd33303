// Package dynamo implements the durable appointment ledger on a single
// DynamoDB table. A slot is held by a claim item written in the same
// transaction as the booking, guarded by attribute_not_exists.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
)

type dynamoAPI interface {
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(context.Context, *dynamodb.TransactWriteItemsInput, ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

const (
	conditionalCheckFailed = "ConditionalCheckFailed"
	transactionConflict    = "TransactionConflict"
)

// Ledger durable леджер на DynamoDB
type Ledger struct {
	client    dynamoAPI
	tableName string
	newID     func() string
	now       func() time.Time
}

// NewLedger создает леджер поверх клиента DynamoDB
func NewLedger(client dynamoAPI, tableName string) *Ledger {
	if client == nil {
		panic("dynamodb ledger: client cannot be nil")
	}
	if tableName == "" {
		panic("dynamodb ledger: table name cannot be empty")
	}
	return &Ledger{
		client:    client,
		tableName: tableName,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

func (l *Ledger) ListBookedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	var (
		slots []string
		start map[string]types.AttributeValue
	)
	for {
		out, err := l.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(l.tableName),
			KeyConditionExpression: aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: slotPK(doctorID, date)},
			},
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, unavailable("ListBookedSlots - query claims", err)
		}

		var claims []claimItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &claims); err != nil {
			return nil, unavailable("ListBookedSlots - decode claims", err)
		}
		for _, c := range claims {
			slots = append(slots, c.SK)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}

	if slots == nil {
		return []string{}, nil
	}
	slices.SortFunc(slots, domain.CompareSlots)
	return slots, nil
}

// Reserve пишет claim слота и бронирование одной транзакцией
// Существующий или конкурентно записываемый claim отменяет транзакцию, что означает ledger.ErrAlreadyBooked
func (l *Ledger) Reserve(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	booking := &domain.Booking{
		ID:         l.newID(),
		DoctorID:   draft.DoctorID,
		DoctorName: draft.DoctorName,
		UserID:     draft.UserID,
		UserName:   draft.UserName,
		UserEmail:  draft.UserEmail,
		Date:       draft.Date,
		TimeSlot:   draft.TimeSlot,
		Status:     domain.StatusConfirmed,
		CreatedAt:  l.now().UTC(),
	}

	claim, err := attributevalue.MarshalMap(claimItem{
		PK:        slotPK(draft.DoctorID, draft.Date),
		SK:        draft.TimeSlot,
		BookingID: booking.ID,
	})
	if err != nil {
		return nil, unavailable("Reserve - marshal claim", err)
	}
	item, err := attributevalue.MarshalMap(newBookingItem(booking))
	if err != nil {
		return nil, unavailable("Reserve - marshal booking", err)
	}

	_, err = l.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(l.tableName),
				Item:                claim,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(l.tableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
		},
	})
	if err != nil {
		if claimTaken(err) {
			return nil, ledger.ErrAlreadyBooked
		}
		return nil, unavailable("Reserve - transact write", err)
	}

	return booking, nil
}

// Cancel отменяет бронирование и удаляет claim слота одной транзакцией
func (l *Ledger) Cancel(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	booking, err := l.get(ctx, bookingID, "Cancel")
	if err != nil {
		return nil, err
	}
	if !booking.IsOwnedBy(userID) {
		return nil, ledger.ErrNotOwner
	}
	if booking.IsCancelled() {
		return booking, nil
	}

	cancelledAt := l.now().UTC()
	_, err = l.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: &types.Update{
				TableName:           aws.String(l.tableName),
				Key:                 bookingKey(bookingID),
				UpdateExpression:    aws.String("SET #status = :cancelled, cancelledAt = :at"),
				ConditionExpression: aws.String("#status = :confirmed AND userId = :user"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":cancelled": &types.AttributeValueMemberS{Value: string(domain.StatusCancelled)},
					":confirmed": &types.AttributeValueMemberS{Value: string(domain.StatusConfirmed)},
					":user":      &types.AttributeValueMemberS{Value: userID},
					":at":        &types.AttributeValueMemberS{Value: cancelledAt.Format(time.RFC3339Nano)},
				},
			}},
			{Delete: &types.Delete{
				TableName:           aws.String(l.tableName),
				Key:                 claimKey(booking.SlotKey()),
				ConditionExpression: aws.String("bookingId = :id"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":id": &types.AttributeValueMemberS{Value: bookingID},
				},
			}},
		},
	})
	if err != nil {
		if firstConditionFailed(err) {
			// cancelled concurrently by the owner
			current, getErr := l.get(ctx, bookingID, "Cancel")
			if getErr == nil && current.IsCancelled() {
				return current, nil
			}
		}
		return nil, unavailable("Cancel - transact write", err)
	}

	booking.Status = domain.StatusCancelled
	booking.CancelledAt = &cancelledAt
	return booking, nil
}

func (l *Ledger) ListForUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	var (
		bookings = make([]*domain.Booking, 0)
		start    map[string]types.AttributeValue
	)
	for {
		out, err := l.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(l.tableName),
			IndexName:              aws.String(GSI1Name),
			KeyConditionExpression: aws.String("GSI1PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: userPrefix + userID},
			},
			ScanIndexForward:  aws.Bool(false),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, unavailable("ListForUser - query index", err)
		}
		for _, av := range out.Items {
			b, err := decodeBooking(av)
			if err != nil {
				return nil, unavailable("ListForUser - decode booking", err)
			}
			bookings = append(bookings, b)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}

	domain.SortNewestFirst(bookings)
	return bookings, nil
}

func (l *Ledger) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return l.get(ctx, bookingID, "GetByID")
}

func (l *Ledger) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	var (
		bookings = make([]*domain.Booking, 0)
		start    map[string]types.AttributeValue
	)
	for {
		out, err := l.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(l.tableName),
			FilterExpression: aws.String("begins_with(PK, :prefix) AND SK = :meta"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":prefix": &types.AttributeValueMemberS{Value: bookingPrefix},
				":meta":   &types.AttributeValueMemberS{Value: metaSK},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, unavailable("ListAll - scan", err)
		}
		for _, av := range out.Items {
			b, err := decodeBooking(av)
			if err != nil {
				return nil, unavailable("ListAll - decode booking", err)
			}
			bookings = append(bookings, b)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}

	domain.SortNewestFirst(bookings)
	return bookings, nil
}

func (l *Ledger) get(ctx context.Context, bookingID, op string) (*domain.Booking, error) {
	out, err := l.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(l.tableName),
		Key:            bookingKey(bookingID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, unavailable(op+" - get item", err)
	}
	if out.Item == nil {
		return nil, ledger.ErrBookingNotFound
	}

	b, err := decodeBooking(out.Item)
	if err != nil {
		return nil, unavailable(op+" - decode booking", err)
	}
	return b, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: dynamodb %s: %v", ledger.ErrUnavailable, op, err)
}

// firstCancelReason возвращает код отмены транзакции для первого элемента
func firstCancelReason(err error) string {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) || len(tce.CancellationReasons) == 0 {
		return ""
	}
	return aws.ToString(tce.CancellationReasons[0].Code)
}

// firstConditionFailed сообщает, что транзакция отменена из-за условия первого элемента
func firstConditionFailed(err error) bool {
	return firstCancelReason(err) == conditionalCheckFailed
}

// claimTaken сообщает, что claim слота уже существует или его пишет конкурирующая транзакция
func claimTaken(err error) bool {
	switch firstCancelReason(err) {
	case conditionalCheckFailed, transactionConflict:
		return true
	}
	return false
}
