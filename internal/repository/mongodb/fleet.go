package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

var byID = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

func (r *MongoDBRepository) CreateAircraft(ctx context.Context, a models.Aircraft) (models.Aircraft, error) {
	id, err := r.nextID(ctx, collAircraft)
	if err != nil {
		return models.Aircraft{}, err
	}
	a.ID = id
	if _, err := r.db.Collection(collAircraft).InsertOne(ctx, newAircraftDoc(a)); err != nil {
		return models.Aircraft{}, mapWriteError(err, "aircraft", a.Registration)
	}
	return a, nil
}

func (r *MongoDBRepository) FindAircraft(ctx context.Context, id int64) (models.Aircraft, error) {
	var doc aircraftDoc
	if err := findOne(ctx, r.db.Collection(collAircraft), bson.M{"_id": id}, &doc, "aircraft", id); err != nil {
		return models.Aircraft{}, err
	}
	return doc.model(), nil
}

func (r *MongoDBRepository) FindAircraftByRegistration(ctx context.Context, registration string) (models.Aircraft, error) {
	var doc aircraftDoc
	err := findOne(ctx, r.db.Collection(collAircraft), bson.M{"registration": registration}, &doc, "aircraft", registration,
		options.FindOne().SetCollation(keyCollation))
	if err != nil {
		return models.Aircraft{}, err
	}
	return doc.model(), nil
}

func (r *MongoDBRepository) ListAircraft(ctx context.Context) ([]models.Aircraft, error) {
	docs, err := findAll[aircraftDoc](ctx, r.db.Collection(collAircraft), bson.M{}, byID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Aircraft, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *MongoDBRepository) UpdateAircraft(ctx context.Context, a models.Aircraft) error {
	res, err := r.db.Collection(collAircraft).ReplaceOne(ctx, bson.M{"_id": a.ID}, newAircraftDoc(a))
	if err != nil {
		return mapWriteError(err, "aircraft", a.Registration)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Entity: "aircraft", ID: a.ID}
	}
	return nil
}

func (r *MongoDBRepository) DeleteAircraft(ctx context.Context, id int64) error {
	if err := r.ensureUnreferenced(ctx, "aircraft", id,
		reference{collServices, bson.M{"aircraft_id": id}},
		reference{collExpenses, bson.M{"aircraft_id": id}},
	); err != nil {
		return err
	}
	res, err := r.db.Collection(collAircraft).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete aircraft %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Entity: "aircraft", ID: id}
	}
	return nil
}

type reference struct {
	coll   string
	filter bson.M
}

func (r *MongoDBRepository) ensureUnreferenced(ctx context.Context, entity string, id int64, refs ...reference) error {
	for _, ref := range refs {
		n, err := r.db.Collection(ref.coll).CountDocuments(ctx, ref.filter, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("count %s referencing %s %d: %w", ref.coll, entity, id, err)
		}
		if n > 0 {
			return &models.ConflictError{Entity: entity, Key: fmt.Sprintf("%d is referenced by %s", id, ref.coll)}
		}
	}
	return nil
}

func (r *MongoDBRepository) CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	id, err := r.nextID(ctx, collEmployees)
	if err != nil {
		return models.Employee{}, err
	}
	e.ID = id
	if _, err := r.db.Collection(collEmployees).InsertOne(ctx, newEmployeeDoc(e)); err != nil {
		return models.Employee{}, mapWriteError(err, "employee", e.Name)
	}
	return e, nil
}

func (r *MongoDBRepository) FindEmployee(ctx context.Context, id int64) (models.Employee, error) {
	var doc employeeDoc
	if err := findOne(ctx, r.db.Collection(collEmployees), bson.M{"_id": id}, &doc, "employee", id); err != nil {
		return models.Employee{}, err
	}
	return doc.model(), nil
}

func (r *MongoDBRepository) FindEmployeeByName(ctx context.Context, name string) (models.Employee, error) {
	var doc employeeDoc
	err := findOne(ctx, r.db.Collection(collEmployees), bson.M{"name": name}, &doc, "employee", name,
		options.FindOne().SetCollation(keyCollation))
	if err != nil {
		return models.Employee{}, err
	}
	return doc.model(), nil
}

func (r *MongoDBRepository) ListEmployees(ctx context.Context, role *models.EmployeeRole) ([]models.Employee, error) {
	filter := bson.M{}
	if role != nil {
		filter["role"] = string(*role)
	}
	docs, err := findAll[employeeDoc](ctx, r.db.Collection(collEmployees), filter, byID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Employee, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *MongoDBRepository) UpdateEmployee(ctx context.Context, e models.Employee) error {
	res, err := r.db.Collection(collEmployees).ReplaceOne(ctx, bson.M{"_id": e.ID}, newEmployeeDoc(e))
	if err != nil {
		return mapWriteError(err, "employee", e.Name)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Entity: "employee", ID: e.ID}
	}
	return nil
}

func (r *MongoDBRepository) DeleteEmployee(ctx context.Context, id int64) error {
	if err := r.ensureUnreferenced(ctx, "employee", id,
		reference{collServices, bson.M{"$or": bson.A{bson.M{"pilot_id": id}, bson.M{"secondary_employee_id": id}}}},
	); err != nil {
		return err
	}
	res, err := r.db.Collection(collEmployees).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Entity: "employee", ID: id}
	}
	return nil
}

func (r *MongoDBRepository) CreateSafra(ctx context.Context, s models.Safra) (models.Safra, error) {
	id, err := r.nextID(ctx, collSafras)
	if err != nil {
		return models.Safra{}, err
	}
	s.ID = id
	if _, err := r.db.Collection(collSafras).InsertOne(ctx, newSafraDoc(s)); err != nil {
		return models.Safra{}, mapWriteError(err, "safra", s.Label)
	}
	return s, nil
}

func (r *MongoDBRepository) FindSafra(ctx context.Context, id int64) (models.Safra, error) {
	var doc safraDoc
	if err := findOne(ctx, r.db.Collection(collSafras), bson.M{"_id": id}, &doc, "safra", id); err != nil {
		return models.Safra{}, err
	}
	return doc.model(), nil
}

func (r *MongoDBRepository) ListSafras(ctx context.Context) ([]models.Safra, error) {
	docs, err := findAll[safraDoc](ctx, r.db.Collection(collSafras), bson.M{}, byID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Safra, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *MongoDBRepository) UpdateSafra(ctx context.Context, s models.Safra) error {
	res, err := r.db.Collection(collSafras).ReplaceOne(ctx, bson.M{"_id": s.ID}, newSafraDoc(s))
	if err != nil {
		return mapWriteError(err, "safra", s.Label)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Entity: "safra", ID: s.ID}
	}
	return nil
}

func (r *MongoDBRepository) DeleteSafra(ctx context.Context, id int64) error {
	res, err := r.db.Collection(collSafras).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete safra %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Entity: "safra", ID: id}
	}
	return nil
}
