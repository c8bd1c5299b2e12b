package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"github.com/Freeeeeet/pesopolis/internal/service"
	"github.com/Freeeeeet/pesopolis/internal/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type EntityServiceSuite struct {
	suite.Suite
	ctx      context.Context
	database *base.Database
	entities *service.EntityService
}

func TestEntityService(t *testing.T) {
	suite.Run(t, new(EntityServiceSuite))
}

func (s *EntityServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.database = testutil.NewDatabase(s.T())

	registry, err := service.NewRegistry(service.DefaultHandlers(service.NewValidator(), zap.NewNop())...)
	s.Require().NoError(err)
	s.entities = service.NewEntityService(s.database, registry, zap.NewNop())
}

func (s *EntityServiceSuite) create(kind model.Kind, payload string) int64 {
	id, err := s.entities.Create(s.ctx, kind, json.RawMessage(payload))
	s.Require().NoError(err)
	return id
}

func (s *EntityServiceSuite) TestCreateThenGetOneRoundTrip() {
	id := s.create(model.KindCustomers, `{"name": "Anna", "phone": "+79990000000", "tg_id": 42}`)

	entity, err := s.entities.GetOne(s.ctx, model.KindCustomers, id)
	s.Require().NoError(err)

	customer, ok := entity.(*model.Customer)
	s.Require().True(ok)
	s.Equal(id, customer.ID)
	s.Equal("Anna", customer.Name)
	s.Equal("+79990000000", *customer.Phone)
	s.Equal(int64(42), *customer.TelegramID)
}

func (s *EntityServiceSuite) TestCreateThenGetOneEveryKind() {
	owner := s.create(model.KindCustomers, `{"name": "Anna"}`)
	dog := s.create(model.KindDogs, `{"name": "Rex", "breed": "Shepherd", "owner": `+itoa(owner)+`}`)
	status := s.create(model.KindStaffStatuses,
		`{"name": "junior", "big_dog_price": 1, "low_dog_price": 1, "group_price": 1}`)
	staff := s.create(model.KindStaffs, `{"name": "Oleg", "tg_id": 1001, "status": `+itoa(status)+`}`)
	lesson := s.create(model.KindLessons, `{"date": "2024-01-20T10:00:00Z"}`)

	tests := []struct {
		name    string
		kind    model.Kind
		payload string
		want    string
	}{
		{
			name:    "administrator",
			kind:    model.KindAdministrators,
			payload: `{"name": "Irina", "phone": "+7111", "tg_id": 10}`,
			want:    `{"name": "Irina", "phone": "+7111", "tg_id": 10}`,
		},
		{
			name:    "customer without phone",
			kind:    model.KindCustomers,
			payload: `{"name": "Boris", "tg_id": 11}`,
			want:    `{"name": "Boris", "phone": null, "tg_id": 11}`,
		},
		{
			name:    "small dog",
			kind:    model.KindDogs,
			payload: `{"name": "Bim", "breed": "Setter", "owner": ` + itoa(owner) + `, "is_big": false}`,
			want:    `{"name": "Bim", "breed": "Setter", "owner": ` + itoa(owner) + `, "is_big": false, "is_active": true}`,
		},
		{
			name:    "course",
			kind:    model.KindCourses,
			payload: `{"name": "Agility", "lessons_amount": 10, "price": 12000.5}`,
			want:    `{"name": "Agility", "lessons_amount": 10, "price": 12000.5}`,
		},
		{
			name:    "staff status",
			kind:    model.KindStaffStatuses,
			payload: `{"name": "senior", "big_dog_price": 800, "low_dog_price": 900.25, "group_price": "400"}`,
			want:    `{"name": "senior", "big_dog_price": 800, "low_dog_price": 900.25, "group_price": 400}`,
		},
		{
			name:    "staff",
			kind:    model.KindStaffs,
			payload: `{"name": "Ivan", "phone": "+7222", "tg_id": 1002, "status": ` + itoa(status) + `}`,
			want:    `{"name": "Ivan", "phone": "+7222", "tg_id": 1002, "status": ` + itoa(status) + `}`,
		},
		{
			name:    "lesson with default is_group",
			kind:    model.KindLessons,
			payload: `{"date": "2024-01-20T10:00:00.5Z"}`,
			want:    `{"is_group": false, "date": "2024-01-20T10:00:00.5Z"}`,
		},
		{
			name:    "group lesson with offset",
			kind:    model.KindLessons,
			payload: `{"is_group": true, "date": "2024-01-20T13:00:00+03:00"}`,
			want:    `{"is_group": true, "date": "2024-01-20T10:00:00Z"}`,
		},
		{
			name:    "lesson dog",
			kind:    model.KindLessonDog,
			payload: `{"dog_id": ` + itoa(dog) + `, "lesson_id": ` + itoa(lesson) + `}`,
			want:    `{"dog_id": ` + itoa(dog) + `, "lesson_id": ` + itoa(lesson) + `}`,
		},
		{
			name:    "lesson staff",
			kind:    model.KindLessonStaff,
			payload: `{"staff_id": ` + itoa(staff) + `, "lesson_id": ` + itoa(lesson) + `}`,
			want:    `{"staff_id": ` + itoa(staff) + `, "lesson_id": ` + itoa(lesson) + `}`,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			id := s.create(tt.kind, tt.payload)

			entity, err := s.entities.GetOne(s.ctx, tt.kind, id)
			s.Require().NoError(err)
			s.Equal(id, entity.PrimaryKey())

			var want map[string]any
			s.Require().NoError(json.Unmarshal([]byte(tt.want), &want))
			want["id"] = id
			wantJSON, err := json.Marshal(want)
			s.Require().NoError(err)

			got, err := json.Marshal(entity)
			s.Require().NoError(err)
			s.JSONEq(string(wantJSON), string(got))
		})
	}
}

func (s *EntityServiceSuite) TestCreateAppliesDogDefaults() {
	owner := s.create(model.KindCustomers, `{"name": "Anna"}`)
	payload, err := json.Marshal(map[string]any{"name": "Rex", "breed": "Shepherd", "owner": owner})
	s.Require().NoError(err)

	id, err := s.entities.Create(s.ctx, model.KindDogs, payload)
	s.Require().NoError(err)

	entity, err := s.entities.GetOne(s.ctx, model.KindDogs, id)
	s.Require().NoError(err)
	dog := entity.(*model.Dog)
	s.True(dog.IsBig)
	s.True(dog.IsActive)
}

func (s *EntityServiceSuite) TestCreateIgnoresPayloadID() {
	first := s.create(model.KindCustomers, `{"id": 100, "name": "Anna"}`)
	second := s.create(model.KindCustomers, `{"name": "Boris"}`)

	s.NotEqual(int64(100), first)
	s.Equal(first+1, second)
}

func (s *EntityServiceSuite) TestCreateValidation() {
	tests := []struct {
		name    string
		kind    model.Kind
		payload string
	}{
		{name: "missing required", kind: model.KindCustomers, payload: `{"phone": "123"}`},
		{name: "too long phone", kind: model.KindAdministrators, payload: `{"name": "A", "tg_id": 1, "phone": "0123456789012345678901234567890"}`},
		{name: "unknown field", kind: model.KindCustomers, payload: `{"name": "Anna", "age": 3}`},
		{name: "wrong type", kind: model.KindCustomers, payload: `{"name": 5}`},
		{name: "not an object", kind: model.KindCustomers, payload: `["Anna"]`},
		{name: "zero lessons", kind: model.KindCourses, payload: `{"name": "Agility", "lessons_amount": 0, "price": 100}`},
		{name: "missing price", kind: model.KindCourses, payload: `{"name": "Agility", "lessons_amount": 5}`},
		{name: "missing owner row", kind: model.KindDogs, payload: `{"name": "Rex", "breed": "Shepherd", "owner": 999}`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.entities.Create(s.ctx, tt.kind, json.RawMessage(tt.payload))
			s.ErrorIs(err, service.ErrValidation)

			description, ok := service.Describe(err)
			s.True(ok)
			s.NotEmpty(description)
		})
	}
}

func (s *EntityServiceSuite) TestCreateManyPreservesOrder() {
	payloads := []json.RawMessage{
		json.RawMessage(`{"name": "Anna"}`),
		json.RawMessage(`{"name": "Boris"}`),
		json.RawMessage(`{"name": "Vera"}`),
	}

	ids, err := s.entities.CreateMany(s.ctx, model.KindCustomers, payloads)
	s.Require().NoError(err)
	s.Require().Len(ids, 3)

	for i, want := range []string{"Anna", "Boris", "Vera"} {
		entity, err := s.entities.GetOne(s.ctx, model.KindCustomers, ids[i])
		s.Require().NoError(err)
		s.Equal(want, entity.(*model.Customer).Name)
	}
}

func (s *EntityServiceSuite) TestCreateManyRollsBackOnInvalidItem() {
	payloads := []json.RawMessage{
		json.RawMessage(`{"name": "Anna"}`),
		json.RawMessage(`{"phone": "no name"}`),
	}

	_, err := s.entities.CreateMany(s.ctx, model.KindCustomers, payloads)
	s.ErrorIs(err, service.ErrValidation)

	all, err := s.entities.Get(s.ctx, model.KindCustomers, nil)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *EntityServiceSuite) TestUpdateIsPartial() {
	id := s.create(model.KindStaffStatuses,
		`{"name": "junior", "big_dog_price": 800, "low_dog_price": 900, "group_price": 400}`)

	updated, err := s.entities.Update(s.ctx, model.KindStaffStatuses, id, json.RawMessage(`{"group_price": 450}`))
	s.Require().NoError(err)
	s.Equal(id, updated)

	entity, err := s.entities.GetOne(s.ctx, model.KindStaffStatuses, id)
	s.Require().NoError(err)
	status := entity.(*model.StaffStatus)
	s.Equal("junior", status.Name)
	s.True(status.BigDogPrice.Equal(model.NewMoney(800)))
	s.True(status.LowDogPrice.Equal(model.NewMoney(900)))
	s.True(status.GroupPrice.Equal(model.NewMoney(450)))
}

func (s *EntityServiceSuite) TestUpdateIgnoresUnrelatedInvalidColumns() {
	statusID := s.create(model.KindStaffStatuses,
		`{"name": "junior", "big_dog_price": 800, "low_dog_price": 900, "group_price": 400}`)
	staffID := s.create(model.KindStaffs, `{"name": "Oleg", "tg_id": 1001, "status": `+itoa(statusID)+`}`)

	// статус обнулится через ON DELETE SET NULL
	_, err := s.entities.Delete(s.ctx, model.KindStaffStatuses, statusID)
	s.Require().NoError(err)

	_, err = s.entities.Update(s.ctx, model.KindStaffs, staffID, json.RawMessage(`{"phone": "+7000"}`))
	s.Require().NoError(err)

	_, err = s.entities.Update(s.ctx, model.KindStaffs, staffID, json.RawMessage(`{"status": null}`))
	s.ErrorIs(err, service.ErrValidation)
}

func (s *EntityServiceSuite) TestUpdateMissingIsNotFound() {
	_, err := s.entities.Update(s.ctx, model.KindCustomers, 77, json.RawMessage(`{"name": "Ghost"}`))
	s.ErrorIs(err, service.ErrNotFound)
}

func (s *EntityServiceSuite) TestUpdateMany() {
	ids, err := s.entities.CreateMany(s.ctx, model.KindCustomers, []json.RawMessage{
		json.RawMessage(`{"name": "Anna"}`),
		json.RawMessage(`{"name": "Boris"}`),
	})
	s.Require().NoError(err)

	updated, err := s.entities.UpdateMany(s.ctx, model.KindCustomers, []json.RawMessage{
		json.RawMessage(`{"id": ` + itoa(ids[1]) + `, "name": "Boris B."}`),
		json.RawMessage(`{"id": ` + itoa(ids[0]) + `, "phone": "+7111"}`),
	})
	s.Require().NoError(err)
	s.Equal([]int64{ids[1], ids[0]}, updated)

	anna, err := s.entities.GetOne(s.ctx, model.KindCustomers, ids[0])
	s.Require().NoError(err)
	s.Equal("Anna", anna.(*model.Customer).Name)
	s.Equal("+7111", *anna.(*model.Customer).Phone)

	_, err = s.entities.UpdateMany(s.ctx, model.KindCustomers, []json.RawMessage{
		json.RawMessage(`{"id": ` + itoa(ids[0]) + `, "name": "Changed"}`),
		json.RawMessage(`{"name": "no id"}`),
	})
	s.ErrorIs(err, service.ErrValidation)

	anna, err = s.entities.GetOne(s.ctx, model.KindCustomers, ids[0])
	s.Require().NoError(err)
	s.Equal("Anna", anna.(*model.Customer).Name)
}

func (s *EntityServiceSuite) TestDeleteThenGetOneIsNotFound() {
	id := s.create(model.KindCustomers, `{"name": "Anna"}`)

	deleted, err := s.entities.Delete(s.ctx, model.KindCustomers, id)
	s.Require().NoError(err)
	s.Equal(id, deleted)

	_, err = s.entities.GetOne(s.ctx, model.KindCustomers, id)
	s.ErrorIs(err, service.ErrNotFound)

	_, err = s.entities.Delete(s.ctx, model.KindCustomers, id)
	s.ErrorIs(err, service.ErrNotFound)
}

func (s *EntityServiceSuite) TestDeleteManyIsAtomic() {
	ids, err := s.entities.CreateMany(s.ctx, model.KindCustomers, []json.RawMessage{
		json.RawMessage(`{"name": "Anna"}`),
		json.RawMessage(`{"name": "Boris"}`),
	})
	s.Require().NoError(err)

	_, err = s.entities.DeleteMany(s.ctx, model.KindCustomers, []int64{ids[0], 999})
	s.ErrorIs(err, service.ErrNotFound)

	all, err := s.entities.Get(s.ctx, model.KindCustomers, nil)
	s.Require().NoError(err)
	s.Len(all, 2)

	deleted, err := s.entities.DeleteMany(s.ctx, model.KindCustomers, ids)
	s.Require().NoError(err)
	s.Equal(ids, deleted)
}

func (s *EntityServiceSuite) TestCascades() {
	owner := s.create(model.KindCustomers, `{"name": "Anna"}`)
	dog := s.create(model.KindDogs, `{"name": "Rex", "breed": "Shepherd", "owner": `+itoa(owner)+`}`)
	lesson := s.create(model.KindLessons, `{"date": "2024-01-20T10:00:00Z"}`)
	link := s.create(model.KindLessonDog, `{"dog_id": `+itoa(dog)+`, "lesson_id": `+itoa(lesson)+`}`)

	_, err := s.entities.Delete(s.ctx, model.KindCustomers, owner)
	s.Require().NoError(err)

	_, err = s.entities.GetOne(s.ctx, model.KindDogs, dog)
	s.ErrorIs(err, service.ErrNotFound)

	entity, err := s.entities.GetOne(s.ctx, model.KindLessonDog, link)
	s.Require().NoError(err)
	lessonDog := entity.(*model.LessonDog)
	s.Nil(lessonDog.DogID)
	s.Require().NotNil(lessonDog.LessonID)
	s.Equal(lesson, *lessonDog.LessonID)
}

func (s *EntityServiceSuite) TestDeletingLessonOrStaffNullsLinks() {
	owner := s.create(model.KindCustomers, `{"name": "Anna"}`)
	dog := s.create(model.KindDogs, `{"name": "Rex", "breed": "Shepherd", "owner": `+itoa(owner)+`}`)
	status := s.create(model.KindStaffStatuses,
		`{"name": "junior", "big_dog_price": 1, "low_dog_price": 1, "group_price": 1}`)
	staff := s.create(model.KindStaffs, `{"name": "Oleg", "tg_id": 1001, "status": `+itoa(status)+`}`)
	lesson := s.create(model.KindLessons, `{"date": "2024-01-20T10:00:00Z"}`)
	dogLink := s.create(model.KindLessonDog, `{"dog_id": `+itoa(dog)+`, "lesson_id": `+itoa(lesson)+`}`)
	staffLink := s.create(model.KindLessonStaff, `{"staff_id": `+itoa(staff)+`, "lesson_id": `+itoa(lesson)+`}`)

	_, err := s.entities.Delete(s.ctx, model.KindLessons, lesson)
	s.Require().NoError(err)

	entity, err := s.entities.GetOne(s.ctx, model.KindLessonDog, dogLink)
	s.Require().NoError(err)
	lessonDog := entity.(*model.LessonDog)
	s.Nil(lessonDog.LessonID)
	s.Require().NotNil(lessonDog.DogID)
	s.Equal(dog, *lessonDog.DogID)

	entity, err = s.entities.GetOne(s.ctx, model.KindLessonStaff, staffLink)
	s.Require().NoError(err)
	lessonStaff := entity.(*model.LessonStaff)
	s.Nil(lessonStaff.LessonID)
	s.Require().NotNil(lessonStaff.StaffID)
	s.Equal(staff, *lessonStaff.StaffID)

	_, err = s.entities.Delete(s.ctx, model.KindStaffs, staff)
	s.Require().NoError(err)

	entity, err = s.entities.GetOne(s.ctx, model.KindLessonStaff, staffLink)
	s.Require().NoError(err)
	lessonStaff = entity.(*model.LessonStaff)
	s.Nil(lessonStaff.StaffID)
	s.Nil(lessonStaff.LessonID)
}

func (s *EntityServiceSuite) TestDispatch() {
	result, err := s.entities.Dispatch(s.ctx, service.Operation{
		Entity:  "customers",
		Type:    service.OpCreateMany,
		Payload: json.RawMessage(`[{"name": "Anna"}, {"name": "Boris", "tg_id": 5}]`),
	})
	s.Require().NoError(err)
	created := result.(service.CreatedManyResult)
	s.Len(created.CreatedIDs, 2)

	result, err = s.entities.Dispatch(s.ctx, service.Operation{
		Entity:  "customers",
		Type:    service.OpGet,
		Payload: json.RawMessage(`{"tg_id": 5}`),
	})
	s.Require().NoError(err)
	found := result.([]model.Entity)
	s.Require().Len(found, 1)
	s.Equal(created.CreatedIDs[1], found[0].PrimaryKey())

	result, err = s.entities.Dispatch(s.ctx, service.Operation{
		Entity:  "customers",
		Type:    service.OpUpdate,
		ID:      created.CreatedIDs[0],
		Payload: json.RawMessage(`{"name": "Anna K."}`),
	})
	s.Require().NoError(err)
	s.Equal(service.UpdatedResult{UpdatedID: created.CreatedIDs[0]}, result)

	result, err = s.entities.Dispatch(s.ctx, service.Operation{
		Entity:  "customers",
		Type:    service.OpDeleteMany,
		Payload: json.RawMessage(`[` + itoa(created.CreatedIDs[0]) + `]`),
	})
	s.Require().NoError(err)
	s.Equal(service.DeletedManyResult{DeletedIDs: created.CreatedIDs[:1]}, result)

	_, err = s.entities.Dispatch(s.ctx, service.Operation{Entity: "cats", Type: service.OpGet})
	s.ErrorIs(err, service.ErrUnknownEntity)

	_, err = s.entities.Dispatch(s.ctx, service.Operation{Entity: "courses_to_dogs", Type: service.OpGet})
	s.ErrorIs(err, service.ErrUnknownEntity)

	_, err = s.entities.Dispatch(s.ctx, service.Operation{
		Entity:  "customers",
		Type:    service.OpGet,
		Payload: json.RawMessage(`{"nickname": "x"}`),
	})
	s.ErrorIs(err, service.ErrValidation)
}

func (s *EntityServiceSuite) TestGetFilterWithNull() {
	s.create(model.KindCustomers, `{"name": "Anna"}`)
	s.create(model.KindCustomers, `{"name": "Boris", "tg_id": 9}`)

	result, err := s.entities.Dispatch(s.ctx, service.Operation{
		Entity:  "customers",
		Type:    service.OpGet,
		Payload: json.RawMessage(`{"tg_id": null}`),
	})
	s.Require().NoError(err)
	found := result.([]model.Entity)
	s.Require().Len(found, 1)
	s.Equal("Anna", found[0].(*model.Customer).Name)
}
