package storage

import (
	"reflect"
	"strings"
	"testing"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/stretchr/testify/assert"
)

// колонки запросов должны совпадать с db-тегами domain.User, иначе sqlx не заполнит поля
func TestUserColumnsMatchDBTags(t *testing.T) {
	typ := reflect.TypeOf(domain.User{})

	var tags []string
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("db")
		assert.NotEmpty(t, tag, "field %s has no db tag", f.Name)
		assert.Empty(t, f.Tag.Get("gorm"), "field %s", f.Name)
		tags = append(tags, tag)
	}

	assert.Equal(t, strings.Split(userColumns, ", "), tags)
}
