package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

const tagPrefix = "viper"

// populateNeuronConfig copies the values viper resolved from flags, env and
// the config file onto config.
func populateNeuronConfig(config *NeuronConfig) (*NeuronConfig, error) {
	if err := recursivelySet(reflect.ValueOf(config), ""); err != nil {
		return nil, err
	}
	return config, nil
}

// recursivelySet walks the struct behind val, nested structs being addressed
// with dotted keys such as "GitHub.AppID".
func recursivelySet(val reflect.Value, prefix string) error {
	if val.Kind() != reflect.Ptr {
		return errors.New("config target must be a pointer")
	}
	val = reflect.Indirect(val)
	if val.Kind() != reflect.Struct {
		return errors.New("config target must point to a struct")
	}

	vType := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		for _, tag := range getTags(vType.Field(i)) {
			key := prefix + tag
			if field.Kind() == reflect.Struct {
				if err := recursivelySet(field.Addr(), key+"."); err != nil {
					return err
				}
				continue
			}
			if err := setField(field, key); err != nil {
				return err
			}
		}
	}
	return nil
}

// setField assigns the viper value for key, leaving fields that already hold
// a value untouched when viper has nothing for them.
func setField(field reflect.Value, key string) error {
	switch field.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		v := viper.GetInt64(key)
		if v == 0 && field.Int() != 0 {
			return nil
		}
		field.SetInt(v)
	case reflect.Float64:
		v := viper.GetFloat64(key)
		if v == 0 && field.Float() != 0 {
			return nil
		}
		field.SetFloat(v)
	case reflect.String:
		v := viper.GetString(key)
		if v == "" && field.String() != "" {
			return nil
		}
		field.SetString(v)
	case reflect.Bool:
		v := viper.GetBool(key)
		if !v && field.Bool() {
			return nil
		}
		field.SetBool(v)
	case reflect.Map:
	default:
		return fmt.Errorf("unsupported config field %q of kind %s", key, field.Kind())
	}
	return nil
}

// getTags returns the keys a field is looked up under, the field name when it
// carries no tags.
func getTags(field reflect.StructField) []string {
	if field.Tag == "" {
		return []string{field.Name}
	}
	values := []string{}
	for _, prefix := range []string{tagPrefix, "yaml", "json", "env", "mapstructure"} {
		if v := field.Tag.Get(prefix); v != "" {
			values = append(values, v)
		}
	}
	return values
}
