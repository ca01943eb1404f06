// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package avatars is a client for the profile-picture object store.

Objects are keyed by "{studentID}/avatar.{ext}". Store uploads (with
overwrite) and returns the durable public URL; DeleteAll removes every
known extension variant for a student, tolerating objects that are
already gone.

	client := avatars.New(cfg.StorageURL, cfg.StorageBucket, cfg.StorageKey)
	url, err := client.Store(avatars.AvatarPath(id, "jpg"), data, "image/jpeg")
	err = client.DeleteAll(id)
*/
package avatars
