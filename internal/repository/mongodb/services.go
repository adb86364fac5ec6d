package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/repository"
)

func serviceFilter(q repository.ServiceQuery) bson.M {
	filter := bson.M{}
	if len(q.IDs) > 0 {
		filter["_id"] = bson.M{"$in": q.IDs}
	}
	if q.AircraftID != nil {
		filter["aircraft_id"] = *q.AircraftID
	}
	if q.EmployeeID != nil {
		filter["$or"] = bson.A{
			bson.M{"pilot_id": *q.EmployeeID},
			bson.M{"secondary_employee_id": *q.EmployeeID},
		}
	}
	if q.Range != nil {
		filter["start_date"] = bson.M{"$gte": q.Range.Start, "$lte": q.Range.End}
	}
	return filter
}

// CreateService inserts the service and its commissions in one transaction.
func (r *MongoDBRepository) CreateService(ctx context.Context, svc models.Service, commissions []models.CommissionExpense) (models.Service, []models.CommissionExpense, error) {
	var stored []models.CommissionExpense
	err := r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		id, err := r.nextID(sc, collServices)
		if err != nil {
			return err
		}
		svc.ID = id
		doc, err := newServiceDoc(svc)
		if err != nil {
			return err
		}
		if _, err := r.db.Collection(collServices).InsertOne(sc, doc); err != nil {
			return mapWriteError(err, "service", fmt.Sprint(id))
		}
		stored, err = r.insertCommissions(sc, id, commissions)
		return err
	})
	if err != nil {
		return models.Service{}, nil, err
	}

	r.logger.Debug("service stored", zap.Int64("service_id", svc.ID), zap.Int("commissions", len(stored)))
	return svc, stored, nil
}

// UpdateService replaces the service document and its commission expenses
// in one transaction.
func (r *MongoDBRepository) UpdateService(ctx context.Context, svc models.Service, commissions []models.CommissionExpense) ([]models.CommissionExpense, error) {
	var stored []models.CommissionExpense
	err := r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		doc, err := newServiceDoc(svc)
		if err != nil {
			return err
		}
		res, err := r.db.Collection(collServices).ReplaceOne(sc, bson.M{"_id": svc.ID}, doc)
		if err != nil {
			return fmt.Errorf("replace service %d: %w", svc.ID, err)
		}
		if res.MatchedCount == 0 {
			return &models.NotFoundError{Entity: "service", ID: svc.ID}
		}
		if _, err := r.db.Collection(collExpenses).DeleteMany(sc, bson.M{
			"service_id": svc.ID,
			"origin":     string(models.OriginCommission),
		}); err != nil {
			return fmt.Errorf("drop commissions of service %d: %w", svc.ID, err)
		}
		stored, err = r.insertCommissions(sc, svc.ID, commissions)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *MongoDBRepository) insertCommissions(ctx context.Context, serviceID int64, commissions []models.CommissionExpense) ([]models.CommissionExpense, error) {
	if len(commissions) == 0 {
		return nil, nil
	}
	out := make([]models.CommissionExpense, 0, len(commissions))
	docs := make([]interface{}, 0, len(commissions))
	for _, c := range commissions {
		id, err := r.nextID(ctx, collExpenses)
		if err != nil {
			return nil, err
		}
		c.ID = id
		c.ServiceID = serviceID
		doc, err := newExpenseDoc(c)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		docs = append(docs, doc)
	}
	if _, err := r.db.Collection(collExpenses).InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert commissions of service %d: %w", serviceID, err)
	}
	return out, nil
}

func (r *MongoDBRepository) FindService(ctx context.Context, id int64) (models.Service, error) {
	var doc serviceDoc
	if err := findOne(ctx, r.db.Collection(collServices), bson.M{"_id": id}, &doc, "service", id); err != nil {
		return models.Service{}, err
	}
	return doc.model()
}

func (r *MongoDBRepository) ListServices(ctx context.Context, q repository.ServiceQuery) ([]models.Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}})
	docs, err := findAll[serviceDoc](ctx, r.db.Collection(collServices), serviceFilter(q), opts)
	if err != nil {
		return nil, err
	}
	out := make([]models.Service, 0, len(docs))
	for _, d := range docs {
		svc, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, nil
}

// DeleteServices removes the services and the expenses linked to them in one
// transaction.
func (r *MongoDBRepository) DeleteServices(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.db.Collection(collExpenses).DeleteMany(sc, bson.M{"service_id": bson.M{"$in": ids}}); err != nil {
			return fmt.Errorf("delete expenses of services: %w", err)
		}
		res, err := r.db.Collection(collServices).DeleteMany(sc, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return fmt.Errorf("delete services: %w", err)
		}
		deleted = res.DeletedCount
		return nil
	})
	return deleted, err
}
