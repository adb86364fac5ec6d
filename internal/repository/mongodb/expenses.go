package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/repository"
)

func expenseFilter(q repository.ExpenseQuery) bson.M {
	filter := bson.M{}
	if q.Origin != "" {
		filter["origin"] = string(q.Origin)
	}
	if q.AircraftID != nil {
		filter["aircraft_id"] = *q.AircraftID
	}
	if q.EmployeeID != nil {
		filter["employee_id"] = *q.EmployeeID
	}
	if len(q.ServiceIDs) > 0 {
		filter["service_id"] = bson.M{"$in": q.ServiceIDs}
	}
	if q.Range != nil {
		filter["date"] = bson.M{"$gte": q.Range.Start, "$lte": q.Range.End}
	}
	return filter
}

func (r *MongoDBRepository) CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	id, err := r.nextID(ctx, collExpenses)
	if err != nil {
		return nil, err
	}
	e = models.WithExpenseID(e, id)
	doc, err := newExpenseDoc(e)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.Collection(collExpenses).InsertOne(ctx, doc); err != nil {
		return nil, mapWriteError(err, "expense", fmt.Sprint(id))
	}
	return e, nil
}

func (r *MongoDBRepository) FindExpense(ctx context.Context, id int64) (models.Expense, error) {
	var doc expenseDoc
	if err := findOne(ctx, r.db.Collection(collExpenses), bson.M{"_id": id}, &doc, "expense", id); err != nil {
		return nil, err
	}
	return doc.model()
}

func (r *MongoDBRepository) UpdateExpense(ctx context.Context, e models.Expense) error {
	id := e.Common().ID
	doc, err := newExpenseDoc(e)
	if err != nil {
		return err
	}
	res, err := r.db.Collection(collExpenses).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("replace expense %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Entity: "expense", ID: id}
	}
	return nil
}

func (r *MongoDBRepository) ListExpenses(ctx context.Context, q repository.ExpenseQuery) ([]models.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	docs, err := findAll[expenseDoc](ctx, r.db.Collection(collExpenses), expenseFilter(q), opts)
	if err != nil {
		return nil, err
	}
	out := make([]models.Expense, 0, len(docs))
	for _, d := range docs {
		e, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *MongoDBRepository) UpdateExpenseFields(ctx context.Context, ids []int64, field string, value string) (int64, error) {
	if field != repository.FieldPaymentStatus {
		return 0, &models.ValidationError{Field: "field", Reason: "only " + repository.FieldPaymentStatus + " can be bulk updated"}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.Collection(collExpenses).UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{field: value}},
	)
	if err != nil {
		return 0, fmt.Errorf("update expenses %s: %w", field, err)
	}
	return res.MatchedCount, nil
}

func (r *MongoDBRepository) DeleteExpenses(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.Collection(collExpenses).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("delete expenses: %w", err)
	}
	return res.DeletedCount, nil
}

// SaveReportSnapshot saves a periodic balance.
func (r *MongoDBRepository) SaveReportSnapshot(ctx context.Context, snap models.ReportSnapshot) error {
	doc, err := newSnapshotDoc(snap)
	if err != nil {
		return err
	}
	if _, err := r.db.Collection(collSnapshots).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert report snapshot: %w", err)
	}
	return nil
}

// ListReportSnapshots returns the newest snapshots first.
func (r *MongoDBRepository) ListReportSnapshots(ctx context.Context, limit int64) ([]models.ReportSnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	docs, err := findAll[snapshotDoc](ctx, r.db.Collection(collSnapshots), bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]models.ReportSnapshot, 0, len(docs))
	for _, d := range docs {
		s, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
