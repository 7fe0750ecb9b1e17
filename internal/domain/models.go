// Package domain defines the persistence models for users, groups, habits,
// habit entries, streak ledgers, plans, subscriptions, and notifications.
// These types are mapped with GORM and form the core data layer of the habit
// tracking application. Table and column names keep the original Spanish
// schema so the API stays wire-compatible with existing clients.
package domain

import (
	"time"
)

// Entry states. An entry records either a completed day or a missed one.
const (
	EntrySuccess = "exito"
	EntryFailure = "fallo"
)

// Habit types: build a habit ("hacer") or quit one ("dejar").
const (
	HabitTypeDo   = "hacer"
	HabitTypeQuit = "dejar"
)

// Group member roles.
const (
	RoleOwner  = "propietario"
	RoleAdmin  = "administrador"
	RoleMember = "miembro"
)

// Invite states.
const (
	InvitePending  = "pendiente"
	InviteAccepted = "aceptada"
	InviteExpired  = "expirada"
	InviteRevoked  = "revocada"
)

// Subscription states and billing cycles.
const (
	SubscriptionActive    = "activa"
	SubscriptionCancelled = "cancelada"
	SubscriptionExpired   = "vencida"

	CycleFree    = "gratuito"
	CycleMonthly = "mensual"
	CycleYearly  = "anual"
)

// Notification types.
const (
	NotificationReminder    = "recordatorio"
	NotificationAchievement = "logro"
	NotificationSystem      = "sistema"
)

// User is a directory row keyed by the external identity provider's id. The
// streak engine only reads Timezone and ClosureHour from it; everything else
// is profile data.
//
// ClosureHour shifts the user's day boundary: activity before ClosureHour:00
// local time counts toward the previous calendar day (0 = midnight boundary).
type User struct {
	ID          string    `json:"id"                    gorm:"column:id_clerk;type:varchar(191);primaryKey"`
	Email       string    `json:"correo"                gorm:"column:correo;type:varchar(191)"`
	FullName    string    `json:"nombre_completo"       gorm:"column:nombre_completo;type:varchar(191)"`
	ImageURL    string    `json:"url_imagen,omitempty"  gorm:"column:url_imagen;type:text"`
	Locale      string    `json:"idioma"                gorm:"column:idioma;type:varchar(10);default:'es'"`
	Timezone    string    `json:"zona_horaria"          gorm:"column:zona_horaria;type:varchar(50);default:'America/Lima'"`
	ClosureHour int       `json:"cierre_dia_hora"       gorm:"column:cierre_dia_hora;default:0"`
	CreatedAt   time.Time `json:"fecha_creacion"        gorm:"column:fecha_creacion"`
	UpdatedAt   time.Time `json:"-"                     gorm:"column:fecha_actualizacion"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "usuarios" }

// Group is a set of users sharing habits. The owner is also materialized as a
// GroupMember with RoleOwner.
type Group struct {
	ID          string    `json:"id"             gorm:"type:char(36);primaryKey"`
	OwnerID     string    `json:"id_propietario" gorm:"column:id_propietario;type:varchar(191);not null;index"`
	Name        string    `json:"nombre"         gorm:"column:nombre;type:varchar(120);not null"`
	Description string    `json:"descripcion"    gorm:"column:descripcion;type:text"`
	CreatedAt   time.Time `json:"fecha_creacion" gorm:"column:fecha_creacion"`
}

// TableName returns the database table name for Group.
func (Group) TableName() string { return "grupos" }

// GroupMember links a user to a group with a role. The composite primary key
// guarantees a user joins a group at most once.
type GroupMember struct {
	GroupID  string    `json:"id_grupo"    gorm:"column:id_grupo;type:char(36);primaryKey"`
	UserID   string    `json:"id_clerk"    gorm:"column:id_clerk;type:varchar(191);primaryKey"`
	Role     string    `json:"rol"         gorm:"column:rol;type:varchar(16);not null;default:'miembro';check:rol IN ('propietario','administrador','miembro')"`
	JoinedAt time.Time `json:"fecha_union" gorm:"column:fecha_union"`
}

// TableName returns the database table name for GroupMember.
func (GroupMember) TableName() string { return "grupo_miembros" }

// GroupInvite is a token-addressed invitation to join a group.
type GroupInvite struct {
	ID        string    `json:"id"              gorm:"type:char(36);primaryKey"`
	GroupID   string    `json:"id_grupo"        gorm:"column:id_grupo;type:char(36);not null;index"`
	InviterID string    `json:"id_invitador"    gorm:"column:id_invitador;type:varchar(191);not null"`
	Email     string    `json:"correo_invitado" gorm:"column:correo_invitado;type:varchar(191);not null"`
	Token     string    `json:"-"               gorm:"column:token;type:varchar(64);not null;uniqueIndex"`
	State     string    `json:"estado"          gorm:"column:estado;type:varchar(16);not null;default:'pendiente';check:estado IN ('pendiente','aceptada','expirada','revocada')"`
	ExpiresAt time.Time `json:"expira_en"       gorm:"column:expira_en;not null"`
	CreatedAt time.Time `json:"fecha_creacion"  gorm:"column:fecha_creacion"`
}

// TableName returns the database table name for GroupInvite.
func (GroupInvite) TableName() string { return "grupo_invitaciones" }

// Habit is owned by one user and optionally associated with one group; group
// habits are visible to every group member. Habits are archived rather than
// deleted; the hard-delete path cascades ledgers and entries explicitly.
type Habit struct {
	ID        string    `json:"id"                 gorm:"type:char(36);primaryKey"`
	OwnerID   string    `json:"id_propietario"     gorm:"column:id_propietario;type:varchar(191);not null;index"`
	GroupID   *string   `json:"id_grupo,omitempty" gorm:"column:id_grupo;type:char(36);index"`
	Title     string    `json:"titulo"             gorm:"column:titulo;type:varchar(255);not null"`
	Type      string    `json:"tipo"               gorm:"column:tipo;type:varchar(10);not null;check:tipo IN ('hacer','dejar')"`
	Archived  bool      `json:"archivado"          gorm:"column:archivado;default:false"`
	CreatedAt time.Time `json:"fecha_creacion"     gorm:"column:fecha_creacion"`
}

// TableName returns the database table name for Habit.
func (Habit) TableName() string { return "habitos" }

// IsGroupHabit reports whether the habit belongs to a group.
func (h *Habit) IsGroupHabit() bool { return h.GroupID != nil && *h.GroupID != "" }

// HabitEntry is one record per (habit, user, local calendar date); the unique
// index uniq_registro enforces the at-most-one-entry-per-date invariant.
// Date holds the user's local date normalized to midnight UTC. RecordedAt is
// the wall-clock instant of recording, stored normalized to UTC.
type HabitEntry struct {
	ID         string    `json:"id"               gorm:"type:char(36);primaryKey"`
	HabitID    string    `json:"id_habito"        gorm:"column:id_habito;type:char(36);not null;uniqueIndex:uniq_registro,priority:1"`
	UserID     string    `json:"id_clerk"         gorm:"column:id_clerk;type:varchar(191);not null;uniqueIndex:uniq_registro,priority:2"`
	Date       time.Time `json:"fecha"            gorm:"column:fecha;type:date;not null;uniqueIndex:uniq_registro,priority:3"`
	RecordedAt time.Time `json:"fecha_hora_local" gorm:"column:fecha_hora_local;not null"`
	State      string    `json:"estado"           gorm:"column:estado;type:varchar(10);not null;check:estado IN ('exito','fallo')"`
	Comment    string    `json:"comentario"       gorm:"column:comentario;type:text"`
	CreatedAt  time.Time `json:"fecha_creacion"   gorm:"column:fecha_creacion"`
	UpdatedAt  time.Time `json:"-"                gorm:"column:fecha_actualizacion"`
}

// TableName returns the database table name for HabitEntry.
func (HabitEntry) TableName() string { return "habito_registros" }

// HabitStreak is the per-(habit,user) streak ledger row, created lazily on
// first access. Current never exceeds Best after any engine operation.
// LastReviewedLocal caches the local date of the last passive review so the
// review pass runs at most once per local day.
type HabitStreak struct {
	HabitID string `json:"id_habito" gorm:"column:id_habito;type:char(36);primaryKey"`
	UserID  string `json:"id_clerk"  gorm:"column:id_clerk;type:varchar(191);primaryKey"`
	// Current is the running count of consecutive successful local days.
	Current int `json:"racha_actual" gorm:"column:racha_actual;not null;default:0"`
	// Best is the historical maximum of Current; never lowered.
	Best int `json:"mejor_racha" gorm:"column:mejor_racha;not null;default:0"`
	// LastSuccessDate is the date of the most recent success entry; failures
	// do not advance it.
	LastSuccessDate *time.Time `json:"ultima_fecha" gorm:"column:ultima_fecha;type:date"`
	// LastReviewedLocal is the local date the passive review last ran.
	LastReviewedLocal time.Time `json:"-" gorm:"column:ultima_revision_local;type:date"`
	UpdatedAt         time.Time `json:"-" gorm:"column:fecha_actualizacion"`
}

// TableName returns the database table name for HabitStreak.
func (HabitStreak) TableName() string { return "habito_rachas" }

// Plan is a subscription tier. MaxHabits == 0 means unlimited.
type Plan struct {
	ID          int       `json:"id"              gorm:"primaryKey"`
	Code        string    `json:"codigo"          gorm:"column:codigo;type:varchar(50);not null;uniqueIndex"`
	Name        string    `json:"nombre"          gorm:"column:nombre;type:varchar(100);not null"`
	PriceCents  int       `json:"precio_centavos" gorm:"column:precio_centavos;not null;default:0"`
	Currency    string    `json:"moneda"          gorm:"column:moneda;type:varchar(3);default:'USD'"`
	MaxHabits   int       `json:"max_habitos"     gorm:"column:max_habitos"`
	AllowGroups bool      `json:"permite_grupos"  gorm:"column:permite_grupos;default:false"`
	Description string    `json:"descripcion"     gorm:"column:descripcion;type:text"`
	Active      bool      `json:"activo"          gorm:"column:activo;default:true"`
	CreatedAt   time.Time `json:"fecha_creacion"  gorm:"column:fecha_creacion"`
}

// TableName returns the database table name for Plan.
func (Plan) TableName() string { return "planes" }

// Subscription ties a user to a plan. Only one row per user carries
// IsCurrent=true.
type Subscription struct {
	ID          string     `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID      string     `json:"id_clerk"       gorm:"column:id_clerk;type:varchar(191);not null;index"`
	PlanID      int        `json:"id_plan"        gorm:"column:id_plan;not null"`
	State       string     `json:"estado"         gorm:"column:estado;type:varchar(16);not null;default:'activa';check:estado IN ('activa','cancelada','vencida')"`
	Cycle       string     `json:"ciclo"          gorm:"column:ciclo;type:varchar(16)"`
	IsCurrent   bool       `json:"es_actual"      gorm:"column:es_actual;default:true"`
	PeriodStart *time.Time `json:"periodo_inicio" gorm:"column:periodo_inicio"`
	PeriodEnd   *time.Time `json:"periodo_fin"    gorm:"column:periodo_fin"`
	CancelAt    *time.Time `json:"cancelar_en"    gorm:"column:cancelar_en"`
	CreatedAt   time.Time  `json:"fecha_creacion" gorm:"column:fecha_creacion"`
	UpdatedAt   time.Time  `json:"-"              gorm:"column:fecha_actualizacion"`

	// Plan is the subscribed tier, loaded explicitly by the repo layer.
	Plan *Plan `json:"plan,omitempty" gorm:"foreignKey:PlanID;references:ID"`
}

// TableName returns the database table name for Subscription.
func (Subscription) TableName() string { return "suscripciones" }

// Notification is an in-app message for a user. Payload holds type-specific
// data serialized as JSON.
type Notification struct {
	ID           string     `json:"id"              gorm:"type:char(36);primaryKey"`
	UserID       string     `json:"id_clerk"        gorm:"column:id_clerk;type:varchar(191);not null;index"`
	Type         string     `json:"tipo"            gorm:"column:tipo;type:varchar(16);not null;check:tipo IN ('recordatorio','logro','sistema')"`
	Payload      string     `json:"datos_json"      gorm:"column:datos_json;type:text"`
	ScheduledFor *time.Time `json:"programada_para" gorm:"column:programada_para"`
	SentAt       *time.Time `json:"enviada_en"      gorm:"column:enviada_en"`
	CreatedAt    time.Time  `json:"fecha_creacion"  gorm:"column:fecha_creacion"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notificaciones" }
