package model

// Entity строка одной из таблиц сервиса.
// Имена колонок совпадают с JSON-ключами полей.
type Entity interface {
	Table() string
	// Columns колонки без id в порядке Values
	Columns() []string
	Values() []any
	// Targets указатели для Scan: id, затем колонки в порядке Columns
	Targets() []any
	PrimaryKey() int64
}

// Administrator администратор школы
type Administrator struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name" validate:"required,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
	TelegramID int64   `json:"tg_id" validate:"required"`
}

func (Administrator) Table() string       { return "administrators" }
func (Administrator) Columns() []string   { return []string{"name", "phone", "tg_id"} }
func (a Administrator) Values() []any     { return []any{a.Name, a.Phone, a.TelegramID} }
func (a *Administrator) Targets() []any   { return []any{&a.ID, &a.Name, &a.Phone, &a.TelegramID} }
func (a Administrator) PrimaryKey() int64 { return a.ID }

// Customer клиент, владелец собак
type Customer struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name" validate:"required,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
	TelegramID *int64  `json:"tg_id"`
}

func (Customer) Table() string       { return "customers" }
func (Customer) Columns() []string   { return []string{"name", "phone", "tg_id"} }
func (c Customer) Values() []any     { return []any{c.Name, c.Phone, c.TelegramID} }
func (c *Customer) Targets() []any   { return []any{&c.ID, &c.Name, &c.Phone, &c.TelegramID} }
func (c Customer) PrimaryKey() int64 { return c.ID }

// Dog собака клиента
type Dog struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required,max=255"`
	Breed    string `json:"breed" validate:"required,max=255"`
	Owner    int64  `json:"owner" validate:"required"`
	IsBig    bool   `json:"is_big"`
	IsActive bool   `json:"is_active"`
}

// NewDog возвращает собаку со значениями по умолчанию
func NewDog() Dog {
	return Dog{IsBig: true, IsActive: true}
}

func (Dog) Table() string { return "dogs" }
func (Dog) Columns() []string {
	return []string{"name", "breed", "owner", "is_big", "is_active"}
}
func (d Dog) Values() []any { return []any{d.Name, d.Breed, d.Owner, d.IsBig, d.IsActive} }
func (d *Dog) Targets() []any {
	return []any{&d.ID, &d.Name, &d.Breed, &d.Owner, &d.IsBig, &d.IsActive}
}
func (d Dog) PrimaryKey() int64 { return d.ID }

// Course курс занятий
type Course struct {
	ID            int64  `json:"id"`
	Name          string `json:"name" validate:"required,max=255"`
	LessonsAmount int    `json:"lessons_amount" validate:"required,gt=0"`
	Price         *Money `json:"price" validate:"required"`
}

func (Course) Table() string       { return "courses" }
func (Course) Columns() []string   { return []string{"name", "lessons_amount", "price"} }
func (c Course) Values() []any     { return []any{c.Name, c.LessonsAmount, c.Price} }
func (c *Course) Targets() []any   { return []any{&c.ID, &c.Name, &c.LessonsAmount, &c.Price} }
func (c Course) PrimaryKey() int64 { return c.ID }

// CourseDog запись собаки на курс
type CourseDog struct {
	ID       int64 `json:"id"`
	DogID    int64 `json:"dog_id" validate:"required"`
	CourseID int64 `json:"course_id" validate:"required"`
}

func (CourseDog) Table() string       { return "courses_to_dogs" }
func (CourseDog) Columns() []string   { return []string{"dog_id", "course_id"} }
func (c CourseDog) Values() []any     { return []any{c.DogID, c.CourseID} }
func (c *CourseDog) Targets() []any   { return []any{&c.ID, &c.DogID, &c.CourseID} }
func (c CourseDog) PrimaryKey() int64 { return c.ID }

// StaffStatus ступень оплаты сотрудника
type StaffStatus struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required,max=255"`
	BigDogPrice *Money `json:"big_dog_price" validate:"required"`
	LowDogPrice *Money `json:"low_dog_price" validate:"required"`
	GroupPrice  *Money `json:"group_price" validate:"required"`
}

func (StaffStatus) Table() string { return "staff_status" }
func (StaffStatus) Columns() []string {
	return []string{"name", "big_dog_price", "low_dog_price", "group_price"}
}
func (s StaffStatus) Values() []any {
	return []any{s.Name, s.BigDogPrice, s.LowDogPrice, s.GroupPrice}
}
func (s *StaffStatus) Targets() []any {
	return []any{&s.ID, &s.Name, &s.BigDogPrice, &s.LowDogPrice, &s.GroupPrice}
}
func (s StaffStatus) PrimaryKey() int64 { return s.ID }

// Staff сотрудник (кинолог)
type Staff struct {
	ID         int64   `json:"id"`
	Status     *int64  `json:"status" validate:"required"`
	Name       string  `json:"name" validate:"required,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
	TelegramID int64   `json:"tg_id" validate:"required"`
}

func (Staff) Table() string     { return "staffs" }
func (Staff) Columns() []string { return []string{"status", "name", "phone", "tg_id"} }
func (s Staff) Values() []any   { return []any{s.Status, s.Name, s.Phone, s.TelegramID} }
func (s *Staff) Targets() []any {
	return []any{&s.ID, &s.Status, &s.Name, &s.Phone, &s.TelegramID}
}
func (s Staff) PrimaryKey() int64 { return s.ID }

// Lesson занятие
type Lesson struct {
	ID      int64      `json:"id"`
	IsGroup bool       `json:"is_group"`
	Date    *Timestamp `json:"date" validate:"required"`
}

func (Lesson) Table() string       { return "lessons" }
func (Lesson) Columns() []string   { return []string{"is_group", "date"} }
func (l Lesson) Values() []any     { return []any{l.IsGroup, l.Date} }
func (l *Lesson) Targets() []any   { return []any{&l.ID, &l.IsGroup, &l.Date} }
func (l Lesson) PrimaryKey() int64 { return l.ID }

// LessonDog собака на занятии
type LessonDog struct {
	ID       int64  `json:"id"`
	DogID    *int64 `json:"dog_id" validate:"required"`
	LessonID *int64 `json:"lesson_id" validate:"required"`
}

func (LessonDog) Table() string       { return "lesson_dog" }
func (LessonDog) Columns() []string   { return []string{"dog_id", "lesson_id"} }
func (l LessonDog) Values() []any     { return []any{l.DogID, l.LessonID} }
func (l *LessonDog) Targets() []any   { return []any{&l.ID, &l.DogID, &l.LessonID} }
func (l LessonDog) PrimaryKey() int64 { return l.ID }

// LessonStaff сотрудник на занятии
type LessonStaff struct {
	ID       int64  `json:"id"`
	StaffID  *int64 `json:"staff_id" validate:"required"`
	LessonID *int64 `json:"lesson_id" validate:"required"`
}

func (LessonStaff) Table() string       { return "lesson_staff" }
func (LessonStaff) Columns() []string   { return []string{"staff_id", "lesson_id"} }
func (l LessonStaff) Values() []any     { return []any{l.StaffID, l.LessonID} }
func (l *LessonStaff) Targets() []any   { return []any{&l.ID, &l.StaffID, &l.LessonID} }
func (l LessonStaff) PrimaryKey() int64 { return l.ID }
