package webutil

import (
	"errors"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ja" // 日本語ロケール
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja" // 日本語翻訳
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"name":         "名前",
	"email":        "メールアドレス",
	"password":     "パスワード",
	"is_completed": "完了状態",
	"rating":       "評価",
	"feedback":     "フィードバック",
	"response":     "回答",
}

func translatedField(fe validator.FieldError) string {
	if name, ok := fieldNameTranslations[fe.Field()]; ok {
		return name
	}
	return fe.Field()
}

// isNumber は min / max を「文字数」ではなく「値」として読むかどうか
func isNumber(fe validator.FieldError) bool {
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func init() {
	Validator = validator.New()

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	var found bool
	Trans, found = uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}

	if err := ja_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	registerTranslation := func(tag string, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, translatedField(fe))
			return t
		})
	}

	registerTranslation("required", "{0}は必須項目です。")
	registerTranslation("email", "{0}は有効なメールアドレス形式ではありません。")

	// min / max は文字列なら文字数、数値なら値の範囲
	registerRange := func(tag, textMsg, numMsg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			if err := ut.Add(tag, textMsg, true); err != nil {
				return err
			}
			return ut.Add(tag+"-number", numMsg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			key := tag
			if isNumber(fe) {
				key = tag + "-number"
			}
			t, _ := ut.T(key, translatedField(fe), fe.Param())
			return t
		})
	}
	registerRange("min", "{0}は{1}文字以上で入力してください。", "{0}は{1}以上で入力してください。")
	registerRange("max", "{0}は{1}文字以下で入力してください。", "{0}は{1}以下で入力してください。")
}

// ValidateStruct は構造体を検証し、失敗時は VALIDATION_ERROR の AppError を返します。
func ValidateStruct(s interface{}) error {
	err := Validator.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationErrorResponse(verrs)
	}
	return err
}
