package rules

// requiredRuleKeys are the fields every classified transaction should end up
// with. A missing one is a diagnostic for the rule file author, not an error.
var requiredRuleKeys = []string{"destination", "source", "type", "category"}

// InformationContainer is the per-transaction working record. It layers a
// mutable exported field set (what will be sent to the ledger) over an
// immutable non-exported one (context fields such as the raw operation type,
// visible to rule conditions and templates but never serialized).
//
// The container tracks which exported keys still hold the value they were
// constructed with, so callers can tell pre-computed defaults apart from
// values a rule explicitly set.
type InformationContainer struct {
	data        map[string]interface{}
	nonExported map[string]interface{}
	defaultKeys map[string]struct{}
}

// NewInformationContainer builds a container from the bank-specific
// extraction. Every key of data starts out flagged as default-initialised.
func NewInformationContainer(data, nonExported map[string]interface{}) *InformationContainer {
	if data == nil {
		data = make(map[string]interface{})
	}

	if nonExported == nil {
		nonExported = make(map[string]interface{})
	}

	defaults := make(map[string]struct{}, len(data))
	for key := range data {
		defaults[key] = struct{}{}
	}

	return &InformationContainer{
		data:        data,
		nonExported: nonExported,
		defaultKeys: defaults,
	}
}

// Get returns the exported value for key, falling back to the non-exported
// layer. Reading an absent key is a KeyNotFoundError.
func (c *InformationContainer) Get(key string) (interface{}, error) {
	if value, ok := c.data[key]; ok {
		return value, nil
	}

	if value, ok := c.nonExported[key]; ok {
		return value, nil
	}

	return nil, &KeyNotFoundError{Key: key}
}

// Has reports whether key is readable from either layer.
func (c *InformationContainer) Has(key string) bool {
	_, err := c.Get(key)
	return err == nil
}

// Set writes to the exported layer and clears the default-initialised flag.
func (c *InformationContainer) Set(key string, value interface{}) {
	c.data[key] = value
	delete(c.defaultKeys, key)
}

// Delete removes key from the exported layer.
func (c *InformationContainer) Delete(key string) {
	delete(c.data, key)
	delete(c.defaultKeys, key)
}

// Rename moves the exported value from old to new. The default-initialised
// flag follows the value: a key that was still default before the rename is
// still default under its new name, and never under the old one.
func (c *InformationContainer) Rename(old, new string) error {
	value, ok := c.data[old]
	if !ok {
		return &KeyNotFoundError{Key: old}
	}

	delete(c.data, old)
	c.data[new] = value

	if _, wasDefault := c.defaultKeys[old]; wasDefault {
		delete(c.defaultKeys, old)
		c.defaultKeys[new] = struct{}{}
	} else {
		// Set through Rename must not resurrect a default flag on new.
		delete(c.defaultKeys, new)
	}

	return nil
}

// DefaultInitialisedKeys returns the exported keys still holding their
// constructed value.
func (c *InformationContainer) DefaultInitialisedKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(c.defaultKeys))
	for key := range c.defaultKeys {
		keys[key] = struct{}{}
	}

	return keys
}

// MissingRequiredKeys returns which of the required classification fields are
// absent from the exported layer.
func (c *InformationContainer) MissingRequiredKeys() []string {
	missing := []string{}

	for _, key := range requiredRuleKeys {
		if _, ok := c.data[key]; !ok {
			missing = append(missing, key)
		}
	}

	return missing
}

// Snapshot returns a merged copy of both layers for condition evaluation and
// template interpolation. Exported values shadow non-exported ones, matching
// Get.
func (c *InformationContainer) Snapshot() map[string]interface{} {
	merged := make(map[string]interface{}, len(c.data)+len(c.nonExported))

	for key, value := range c.nonExported {
		merged[key] = value
	}

	for key, value := range c.data {
		merged[key] = value
	}

	return merged
}

// Exported returns a copy of the exported layer only.
func (c *InformationContainer) Exported() map[string]interface{} {
	exported := make(map[string]interface{}, len(c.data))
	for key, value := range c.data {
		exported[key] = value
	}

	return exported
}

func (c *InformationContainer) hasExported(key string) bool {
	_, ok := c.data[key]
	return ok
}
