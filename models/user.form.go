package models

import "time"

const BirthDateLayout = "2006-01-02"

type RegistrationForm struct {
	Nickname             string `label:"Nickname" validate:"required,max=40"`
	Email                string `label:"Email" validate:"required,email"`
	Password             string `label:"Password" validate:"required,min=6,alnum_mix"`
	PasswordConfirmation string `label:"Password confirmation" validate:"eqfield=Password"`
	LastName             string `label:"Last name" validate:"required,zenkaku"`
	FirstName            string `label:"First name" validate:"required,zenkaku"`
	LastNameKana         string `label:"Last name kana" validate:"required,katakana"`
	FirstNameKana        string `label:"First name kana" validate:"required,katakana"`
	BirthDate            string `label:"Birth date" validate:"required,datetime=2006-01-02"`
}

func (f *RegistrationForm) Validate() error {
	return validateStruct(f)
}

// BirthDateValue returns the parsed birth date. Only meaningful after Validate.
func (f *RegistrationForm) BirthDateValue() time.Time {
	t, _ := time.Parse(BirthDateLayout, f.BirthDate)
	return t
}

type LoginForm struct {
	Email    string
	Password string
}
