package dataset

// Validate checks that candidate is a well-formed dataset and returns it.
// It accepts a *Dataset or a Dataset value; anything else, including nil,
// fails with a TypeKind error.
func Validate(candidate interface{}) (*Dataset, error) {
	var d *Dataset
	switch v := candidate.(type) {
	case *Dataset:
		if v == nil {
			return nil, TypeError("validate", "dataset is nil")
		}
		d = v
	case Dataset:
		d = &v
	case nil:
		return nil, TypeError("validate", "expected a dataset, got nil")
	default:
		return nil, TypeError("validate", "expected a dataset, got %T", candidate)
	}

	if d.index == nil && len(d.columns) > 0 {
		return nil, TypeError("validate", "dataset was not built with dataset.New")
	}
	if err := d.check("validate"); err != nil {
		return nil, err
	}
	return d, nil
}
