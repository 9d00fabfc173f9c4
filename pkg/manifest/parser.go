// Package manifest is used for parsing and validating the .tas.yml manifest
// and for selecting the checks and exclusions it declares.
package manifest

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/global"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"gopkg.in/yaml.v3"
)

const (
	emptyTagName     = "-"
	yamlTagName      = "yaml"
	requiredTagName  = "required"
	secretsPrefix    = "secrets:"
	supportedVersion = 1
)

type parser struct {
	logger   lumber.Logger
	validate *validator.Validate
	trans    ut.Translator
}

// NewParser creates and returns a new manifest parser
func NewParser(logger lumber.Logger) (core.ManifestParser, error) {
	validate, trans, err := getValidator()
	if err != nil {
		return nil, err
	}
	return &parser{logger: logger, validate: validate, trans: trans}, nil
}

// Parse validates the manifest content. Every failure is an *errs.InvalidManifestError.
func (p *parser) Parse(content []byte) (*core.Manifest, error) {
	version, err := GetVersion(content)
	if err != nil {
		return nil, err
	}
	if version != supportedVersion {
		return nil, &errs.InvalidManifestError{
			Kind:    errs.ManifestVersion,
			Message: fmt.Sprintf("version %d is not supported", version),
		}
	}

	manifest := &core.Manifest{Version: global.DefaultManifestVersion}
	if err := yaml.Unmarshal(content, manifest); err != nil {
		return nil, &errs.InvalidManifestError{
			Kind:    errs.ManifestSyntax,
			Message: fmt.Sprintf("`%s` contains invalid format: %v", global.ManifestFileName, err),
		}
	}
	if err := p.validateStruct(manifest); err != nil {
		return nil, err
	}
	if err := validateMounts(manifest); err != nil {
		return nil, err
	}
	for _, pattern := range manifest.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, &errs.InvalidManifestError{
				Kind:    errs.ManifestInvalidField,
				Message: fmt.Sprintf("exclude pattern %q is malformed", pattern),
			}
		}
	}
	if err := validatePluginNames(manifest); err != nil {
		return nil, err
	}
	p.logger.Debugf("parsed manifest version %s with %d checks", manifest.Version, len(manifest.Checks))
	return manifest, nil
}

// GetVersion returns the major version of the manifest, 1 when none is declared.
func GetVersion(content []byte) (int, error) {
	v := &core.ManifestVersion{Version: global.DefaultManifestVersion}
	if err := yaml.Unmarshal(content, v); err != nil {
		return 0, &errs.InvalidManifestError{
			Kind:    errs.ManifestSyntax,
			Message: fmt.Sprintf("`%s` contains invalid format: %v", global.ManifestFileName, err),
		}
	}
	if v.Version == "" {
		v.Version = global.DefaultManifestVersion
	}
	majorVersion := strings.Split(v.Version, ".")[0]
	version, err := strconv.Atoi(majorVersion)
	if err != nil {
		return 0, &errs.InvalidManifestError{
			Kind:    errs.ManifestVersion,
			Message: fmt.Sprintf("version %q cannot be parsed", v.Version),
		}
	}
	return version, nil
}

func validateMounts(manifest *core.Manifest) error {
	for i := range manifest.Checks {
		check := &manifest.Checks[i]
		for j := range check.Mounts {
			mount := &check.Mounts[j]
			if !strings.HasPrefix(mount.Source, secretsPrefix) || len(mount.Source) == len(secretsPrefix) {
				return &errs.InvalidManifestError{
					Kind: errs.ManifestInvalidMount,
					Message: fmt.Sprintf("mount source %q of plugin %s must reference a secret (%s<name>)",
						mount.Source, check.Plugin, secretsPrefix),
				}
			}
			if mount.Kind == "" {
				mount.Kind = core.MountFile
			}
		}
	}
	return nil
}

func validatePluginNames(manifest *core.Manifest) error {
	seen := make(map[string]string, len(manifest.Checks))
	for _, check := range manifest.Checks {
		name := PluginName(check.Plugin)
		if name == "" {
			return &errs.InvalidManifestError{
				Kind:    errs.ManifestInvalidField,
				Message: fmt.Sprintf("plugin %q has no image name", check.Plugin),
			}
		}
		if prev, ok := seen[name]; ok {
			return &errs.InvalidManifestError{
				Kind:    errs.ManifestDuplicate,
				Message: fmt.Sprintf("plugins %q and %q both resolve to %s", prev, check.Plugin, name),
			}
		}
		seen[name] = check.Plugin
	}
	return nil
}

func getValidator() (*validator.Validate, ut.Translator, error) {
	enObj := en.New()
	uni := ut.New(enObj, enObj)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, err
	}
	configureValidator(validate, trans)
	return validate, trans, nil
}

// configureValidator configure the struct validator
func configureValidator(validate *validator.Validate, trans ut.Translator) {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		// nolint: gomnd
		name := strings.SplitN(fld.Tag.Get(yamlTagName), ",", 2)[0]
		if name == emptyTagName {
			return fld.Name
		}
		return name
	})

	// nolint: errcheck
	validate.RegisterTranslation(requiredTagName, trans, func(ut ut.Translator) error {
		return ut.Add(requiredTagName, "{0} field is required!", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(requiredTagName, fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:])
		return t
	})
}

func (p *parser) validateStruct(manifest *core.Manifest) error {
	validateErr := p.validate.Struct(manifest)
	if validateErr == nil {
		return nil
	}
	validationErrs, ok := validateErr.(validator.ValidationErrors)
	if !ok {
		return &errs.InvalidManifestError{Kind: errs.ManifestInvalidField, Message: validateErr.Error()}
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, e.Translate(p.trans))
	}
	return &errs.InvalidManifestError{
		Kind: errs.ManifestInvalidField,
		Message: fmt.Sprintf("invalid values provided in `%s`: %s",
			global.ManifestFileName, strings.Join(msgs, "; ")),
	}
}
