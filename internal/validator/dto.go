package validator

// Request DTOs validated at the handler boundary. Progress requests live in
// the models package next to their entity; the rest are collected here.

type CreateStudentRequest struct {
	Nickname  string  `json:"nickname" validate:"required,student_nickname"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=500"`
	BirthYear *int    `json:"birth_year" validate:"omitempty,min=2000,max=2030"`
}

type UpdateStudentRequest struct {
	Nickname  *string `json:"nickname" validate:"omitempty,student_nickname"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=500"`
	BirthYear *int    `json:"birth_year" validate:"omitempty,min=2000,max=2030"`
}

type CreateLevelRequest struct {
	LanguageID    uint   `json:"language_id" validate:"required"`
	NameEn        string `json:"name_en" validate:"required,content_name"`
	NameTa        string `json:"name_ta" validate:"omitempty,content_name"`
	NameSi        string `json:"name_si" validate:"omitempty,content_name"`
	SequenceOrder int    `json:"sequence_order" validate:"min=1"`
	IsFree        bool   `json:"is_free"`
}

type UpdateLevelRequest struct {
	NameEn        *string `json:"name_en" validate:"omitempty,content_name"`
	NameTa        *string `json:"name_ta" validate:"omitempty,content_name"`
	NameSi        *string `json:"name_si" validate:"omitempty,content_name"`
	SequenceOrder *int    `json:"sequence_order" validate:"omitempty,min=1"`
	IsFree        *bool   `json:"is_free"`
}

type CreateStageRequest struct {
	LevelID       uint   `json:"level_id" validate:"required"`
	NameEn        string `json:"name_en" validate:"required,content_name"`
	NameTa        string `json:"name_ta" validate:"omitempty,content_name"`
	NameSi        string `json:"name_si" validate:"omitempty,content_name"`
	SequenceOrder int    `json:"sequence_order" validate:"min=1"`
}

type UpdateStageRequest struct {
	NameEn        *string `json:"name_en" validate:"omitempty,content_name"`
	NameTa        *string `json:"name_ta" validate:"omitempty,content_name"`
	NameSi        *string `json:"name_si" validate:"omitempty,content_name"`
	SequenceOrder *int    `json:"sequence_order" validate:"omitempty,min=1"`
}

type CreateActivityRequest struct {
	StageID        uint   `json:"stage_id" validate:"required"`
	MainActivityID *uint  `json:"main_activity_id"`
	ActivityTypeID *uint  `json:"activity_type_id"`
	NameEn         string `json:"name_en" validate:"required,content_name"`
	NameTa         string `json:"name_ta" validate:"omitempty,content_name"`
	NameSi         string `json:"name_si" validate:"omitempty,content_name"`
	SequenceOrder  int    `json:"sequence_order" validate:"min=1"`
	DetailsJSON    []byte `json:"details_json" validate:"omitempty,json"`
}

type UpdateActivityRequest struct {
	NameEn        *string `json:"name_en" validate:"omitempty,content_name"`
	NameTa        *string `json:"name_ta" validate:"omitempty,content_name"`
	NameSi        *string `json:"name_si" validate:"omitempty,content_name"`
	SequenceOrder *int    `json:"sequence_order" validate:"omitempty,min=1"`
	DetailsJSON   []byte  `json:"details_json" validate:"omitempty,json"`
}

type CreateExerciseRequest struct {
	ActivityID    uint   `json:"activity_id" validate:"required"`
	JSONData      []byte `json:"json_data" validate:"required,json"`
	SequenceOrder int    `json:"sequence_order" validate:"min=1"`
}

type UpdateExerciseRequest struct {
	JSONData      []byte `json:"json_data" validate:"omitempty,json"`
	SequenceOrder *int   `json:"sequence_order" validate:"omitempty,min=1"`
}

type PaymentSessionRequest struct {
	LevelID    uint   `json:"level_id" validate:"required"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

type ChatbotRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}
